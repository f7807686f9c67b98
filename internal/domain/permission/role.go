package permission

import (
	"fmt"
	"regexp"
	"slices"
	"time"
)

type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "active"
	RoleStatusInactive RoleStatus = "inactive"
)

func (s RoleStatus) IsValid() bool {
	return s == RoleStatusActive || s == RoleStatusInactive
}

var codePattern = regexp.MustCompile(`^[a-z][a-z0-9_:\-.]*$`)

type Role struct {
	id          uint
	name        string
	code        string
	description string
	status      RoleStatus
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

func NewRole(name, code, description string) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}
	if err := validateCode(code, "role"); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Role{
		name:        name,
		code:        code,
		description: description,
		status:      RoleStatusActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructRole(id uint, name, code, description string, status RoleStatus, createdAt, updatedAt time.Time, deletedAt *time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:          id,
		name:        name,
		code:        code,
		description: description,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		deletedAt:   deletedAt,
	}, nil
}

func validateCode(code, kind string) error {
	if code == "" {
		return fmt.Errorf("%s code is required", kind)
	}
	if len(code) > 100 {
		return fmt.Errorf("%s code too long (max 100 characters)", kind)
	}
	if !codePattern.MatchString(code) {
		return fmt.Errorf("%s code %q must be lowercase and start with a letter", kind, code)
	}
	return nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Name() string { return r.name }
func (r *Role) Code() string { return r.code }
func (r *Role) Description() string { return r.description }
func (r *Role) Status() RoleStatus { return r.status }
func (r *Role) CreatedAt() time.Time { return r.createdAt }
func (r *Role) UpdatedAt() time.Time { return r.updatedAt }
func (r *Role) DeletedAt() *time.Time { return r.deletedAt }
func (r *Role) State() LifecycleState { return stateOf(r.deletedAt) }

// IsProtected reports whether the role's code is one of the codes that may
// never be deleted.
func (r *Role) IsProtected(protectedCodes []string) bool {
	return slices.Contains(protectedCodes, r.code)
}

func (r *Role) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if len(name) > 50 {
		return fmt.Errorf("role name too long (max 50 characters)")
	}
	r.name = name
	r.updatedAt = time.Now()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}

func (r *Role) ChangeStatus(status RoleStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid role status %q", status)
	}
	if r.status == status {
		return nil
	}
	r.status = status
	r.updatedAt = time.Now()
	return nil
}

// MarkDeleted flips the role inactive and stamps the soft-delete marker.
// Protected roles fail with ErrProtectedRole.
func (r *Role) MarkDeleted(protectedCodes []string, at time.Time) error {
	if r.IsProtected(protectedCodes) {
		return ErrProtectedRole(r.code)
	}
	if r.deletedAt != nil {
		return nil
	}
	r.status = RoleStatusInactive
	r.deletedAt = &at
	r.updatedAt = at
	return nil
}
