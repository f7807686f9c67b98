package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/infrastructure/auth"
	"github.com/kinderhub/kinderhub/internal/shared/constants"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	allowed map[uint]bool
	err     error
}

func (s *stubChecker) CheckUserAccess(_ context.Context, userID uint, code string) (*dto.AccessCheckResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AccessCheckResult{UserID: userID, Code: code, Allowed: s.allowed[userID]}, nil
}

type envelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Reason string `json:"reason"`
	} `json:"error"`
}

func newGuardedEngine(jwtService *auth.JWTService, checker AccessChecker) *gin.Engine {
	log := logger.NewNop()
	authMW := NewAuthMiddleware(jwtService, log)
	permMW := NewPermissionMiddleware(checker, log)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/guarded", authMW.RequireAuth(), permMW.RequirePermission("rbac:manage"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": *ActorID(c)})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func reasonOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env.Error.Reason
}

func TestRequireAuth(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "kinderhub", 60)
	r := newGuardedEngine(jwtService, &stubChecker{allowed: map[uint]bool{1: true}})

	valid, _, err := jwtService.Generate(1, "principal")
	require.NoError(t, err)
	expired, _, err := auth.NewJWTService("test-secret", "kinderhub", -5).Generate(1, "principal")
	require.NoError(t, err)
	foreign, _, err := auth.NewJWTService("other-secret", "kinderhub", 60).Generate(1, "principal")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantReason string
	}{
		{"missing", "", http.StatusUnauthorized, "TOKEN_MISSING"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, "/guarded", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, reasonOf(t, w))
			} else {
				assert.JSONEq(t, `{"actor":1}`, w.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "kinderhub", 60)
	teacher, _, err := jwtService.Generate(2, "ms.lee")
	require.NoError(t, err)

	t.Run("denied", func(t *testing.T) {
		r := newGuardedEngine(jwtService, &stubChecker{allowed: map[uint]bool{1: true}})
		w := doGet(r, "/guarded", "Bearer "+teacher)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "PERMISSION_DENIED", reasonOf(t, w))
	})

	t.Run("checker failure is hidden", func(t *testing.T) {
		r := newGuardedEngine(jwtService, &stubChecker{err: errors.New("casbin: adapter closed")})
		w := doGet(r, "/guarded", "Bearer "+teacher)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "ACCESS_CHECK_ERROR", reasonOf(t, w))
		assert.NotContains(t, w.Body.String(), "adapter closed")
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderXRequestID, strings.Repeat("x", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://admin.kinderhub.local"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://admin.kinderhub.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.kinderhub.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
