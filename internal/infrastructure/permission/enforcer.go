// Package permission keeps a casbin view of the grant tables: one policy per
// (role, conferred permission code) and one grouping per live user grant.
package permission

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

const rbacModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

const (
	userSubjectPrefix = "user:"
	roleSubjectPrefix = "role:"
)

func UserSubject(userID uint) string {
	return userSubjectPrefix + strconv.FormatUint(uint64(userID), 10)
}

func RoleSubject(roleCode string) string {
	return roleSubjectPrefix + roleCode
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer builds the enforcer on the casbin_rule table of db and loads
// the stored policy.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// Enforce reports whether the user holds permissionCode through any role.
func (e *Enforcer) Enforce(userID uint, permissionCode string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(UserSubject(userID), permissionCode)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "user_id", userID, "code", permissionCode)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// ReplaceRolePolicies makes permissionCodes the complete policy set of the
// role.
func (e *Enforcer) ReplaceRolePolicies(roleCode string, permissionCodes []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := RoleSubject(roleCode)
	if _, err := e.enforcer.RemoveFilteredPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to clear policies of %s: %w", sub, err)
	}
	if len(permissionCodes) == 0 {
		return nil
	}

	rules := make([][]string, 0, len(permissionCodes))
	for _, code := range permissionCodes {
		rules = append(rules, []string{sub, code})
	}
	if _, err := e.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("failed to add policies of %s: %w", sub, err)
	}
	return nil
}

// ReplaceUserRoles makes roleCodes the complete role set of the user.
func (e *Enforcer) ReplaceUserRoles(userID uint, roleCodes []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := UserSubject(userID)
	if _, err := e.enforcer.RemoveFilteredGroupingPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to clear roles of %s: %w", sub, err)
	}
	if len(roleCodes) == 0 {
		return nil
	}

	rules := make([][]string, 0, len(roleCodes))
	for _, code := range roleCodes {
		rules = append(rules, []string{sub, RoleSubject(code)})
	}
	if _, err := e.enforcer.AddGroupingPolicies(rules); err != nil {
		return fmt.Errorf("failed to add roles of %s: %w", sub, err)
	}
	return nil
}

// DeleteRole removes the role's policies and every user grouping onto it.
func (e *Enforcer) DeleteRole(roleCode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := RoleSubject(roleCode)
	if _, err := e.enforcer.RemoveFilteredPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to remove policies of %s: %w", sub, err)
	}
	if _, err := e.enforcer.RemoveFilteredGroupingPolicy(1, sub); err != nil {
		return fmt.Errorf("failed to remove groupings of %s: %w", sub, err)
	}
	return nil
}

// RolesForUser lists the role codes the user is directly linked to, sorted.
func (e *Enforcer) RolesForUser(userID uint) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	subjects, err := e.enforcer.GetRolesForUser(UserSubject(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user: %w", err)
	}

	codes := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		if code, ok := strings.CutPrefix(sub, roleSubjectPrefix); ok {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// PermissionsForUser lists the permission codes the enforcer grants the
// user.
func (e *Enforcer) PermissionsForUser(userID uint) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules, err := e.enforcer.GetImplicitPermissionsForUser(UserSubject(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for user: %w", err)
	}

	codes := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 1 {
			codes = append(codes, rule[1])
		}
	}
	return codes, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
