package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeTokenMissing ErrorType = "token_missing"
	ErrorTypeTokenExpired ErrorType = "token_expired"
	ErrorTypeTokenInvalid ErrorType = "token_invalid"
)

// AuthError represents an authentication failure on the admin API.
type AuthError struct {
	*AppError
	// SecurityEvent marks failures worth a warning in the access log,
	// e.g. a forged or foreign token as opposed to a missing one.
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

func newAuthError(t ErrorType, reason, message string, securityEvent bool) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    t,
			Message: message,
			Code:    http.StatusUnauthorized,
			Reason:  reason,
		},
		SecurityEvent: securityEvent,
	}
}

// NewTokenMissingError is returned when no bearer token was sent.
func NewTokenMissingError() *AuthError {
	return newAuthError(ErrorTypeTokenMissing, "TOKEN_MISSING", "missing authorization token", false)
}

// NewTokenExpiredError is returned for a well-formed token past its expiry.
func NewTokenExpiredError() *AuthError {
	return newAuthError(ErrorTypeTokenExpired, "TOKEN_EXPIRED", "token has expired", false)
}

// NewTokenInvalidError is returned for malformed, forged or foreign tokens.
func NewTokenInvalidError() *AuthError {
	return newAuthError(ErrorTypeTokenInvalid, "TOKEN_INVALID", "invalid authorization token", true)
}

// IsAuthError checks if the error is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from error
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// IsSecurityEvent reports whether err should be tracked as a security event.
func IsSecurityEvent(err error) bool {
	authErr := GetAuthError(err)
	return authErr != nil && authErr.SecurityEvent
}
