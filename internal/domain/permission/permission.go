package permission

import (
	"fmt"
	"slices"
	"time"
)

type PermissionType string

const (
	PermissionTypeMenu   PermissionType = "menu"
	PermissionTypeButton PermissionType = "button"
	PermissionTypeAPI    PermissionType = "api"
)

func (t PermissionType) IsValid() bool {
	switch t {
	case PermissionTypeMenu, PermissionTypeButton, PermissionTypeAPI:
		return true
	}
	return false
}

// Permission is a node of the permission forest. parentID links it to its
// parent; conflictCodes lists codes of permissions that must not be granted
// to the same role.
type Permission struct {
	id            uint
	name          string
	code          string
	ptype         PermissionType
	parentID      *uint
	path          string
	component     string
	icon          string
	sortOrder     int
	conflictCodes []string
	createdAt     time.Time
	updatedAt     time.Time
}

// PermissionAttrs carries the mutable attributes of a permission.
type PermissionAttrs struct {
	Name          string
	Code          string
	Type          PermissionType
	ParentID      *uint
	Path          string
	Component     string
	Icon          string
	SortOrder     int
	ConflictCodes []string
}

func NewPermission(attrs PermissionAttrs) (*Permission, error) {
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Permission{
		name:          attrs.Name,
		code:          attrs.Code,
		ptype:         attrs.Type,
		parentID:      attrs.ParentID,
		path:          attrs.Path,
		component:     attrs.Component,
		icon:          attrs.Icon,
		sortOrder:     attrs.SortOrder,
		conflictCodes: normalizeCodes(attrs.ConflictCodes, attrs.Code),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructPermission(id uint, attrs PermissionAttrs, createdAt, updatedAt time.Time) (*Permission, error) {
	if id == 0 {
		return nil, fmt.Errorf("permission ID cannot be zero")
	}

	return &Permission{
		id:            id,
		name:          attrs.Name,
		code:          attrs.Code,
		ptype:         attrs.Type,
		parentID:      attrs.ParentID,
		path:          attrs.Path,
		component:     attrs.Component,
		icon:          attrs.Icon,
		sortOrder:     attrs.SortOrder,
		conflictCodes: slices.Clone(attrs.ConflictCodes),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (a PermissionAttrs) validate() error {
	if a.Name == "" {
		return fmt.Errorf("permission name is required")
	}
	if len(a.Name) > 100 {
		return fmt.Errorf("permission name too long (max 100 characters)")
	}
	if err := validateCode(a.Code, "permission"); err != nil {
		return err
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("invalid permission type %q", a.Type)
	}
	if a.ParentID != nil && *a.ParentID == 0 {
		return fmt.Errorf("parent permission ID cannot be zero")
	}
	return nil
}

// normalizeCodes drops blanks, duplicates and a self-reference.
func normalizeCodes(codes []string, self string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == "" || c == self || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *Permission) ID() uint {
	return p.id
}

func (p *Permission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Permission) Name() string { return p.name }
func (p *Permission) Code() string { return p.code }
func (p *Permission) Type() PermissionType { return p.ptype }
func (p *Permission) ParentID() *uint { return p.parentID }
func (p *Permission) Path() string { return p.path }
func (p *Permission) Component() string { return p.component }
func (p *Permission) Icon() string { return p.icon }
func (p *Permission) SortOrder() int { return p.sortOrder }
func (p *Permission) ConflictCodes() []string { return slices.Clone(p.conflictCodes) }
func (p *Permission) CreatedAt() time.Time { return p.createdAt }
func (p *Permission) UpdatedAt() time.Time { return p.updatedAt }

func (p *Permission) IsRoot() bool {
	return p.parentID == nil
}

// DeclaresConflictWith reports whether this permission lists code as
// mutually exclusive. The relation is one-directional.
func (p *Permission) DeclaresConflictWith(code string) bool {
	return slices.Contains(p.conflictCodes, code)
}

// Update replaces the mutable attributes. The code is immutable once set.
func (p *Permission) Update(attrs PermissionAttrs) error {
	attrs.Code = p.code
	if err := attrs.validate(); err != nil {
		return err
	}
	if attrs.ParentID != nil && *attrs.ParentID == p.id {
		return fmt.Errorf("permission cannot be its own parent")
	}
	p.name = attrs.Name
	p.ptype = attrs.Type
	p.parentID = attrs.ParentID
	p.path = attrs.Path
	p.component = attrs.Component
	p.icon = attrs.Icon
	p.sortOrder = attrs.SortOrder
	p.conflictCodes = normalizeCodes(attrs.ConflictCodes, p.code)
	p.updatedAt = time.Now()
	return nil
}

// Attrs returns the current mutable attributes.
func (p *Permission) Attrs() PermissionAttrs {
	return PermissionAttrs{
		Name:          p.name,
		Code:          p.code,
		Type:          p.ptype,
		ParentID:      p.parentID,
		Path:          p.path,
		Component:     p.component,
		Icon:          p.icon,
		SortOrder:     p.sortOrder,
		ConflictCodes: slices.Clone(p.conflictCodes),
	}
}
