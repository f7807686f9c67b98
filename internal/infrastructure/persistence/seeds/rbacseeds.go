// Package seeds loads the initial role, permission and user set from YAML.
package seeds

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/infrastructure/repository"
	"github.com/kinderhub/kinderhub/internal/shared/db"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// File is the document layout of a seed file.
type File struct {
	Permissions []PermissionSeed `yaml:"permissions"`
	Roles       []RoleSeed       `yaml:"roles"`
	Users       []UserSeed       `yaml:"users"`
}

// PermissionSeed is one node of the permission tree; Children nest under it.
type PermissionSeed struct {
	Code          string           `yaml:"code"`
	Name          string           `yaml:"name"`
	Type          string           `yaml:"type"`
	Path          string           `yaml:"path"`
	Component     string           `yaml:"component"`
	Icon          string           `yaml:"icon"`
	SortOrder     int              `yaml:"sort_order"`
	ConflictCodes []string         `yaml:"conflict_codes"`
	Children      []PermissionSeed `yaml:"children"`
}

type RoleSeed struct {
	Code        string   `yaml:"code"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
	// Inherit defaults to true.
	Inherit *bool `yaml:"inherit"`
}

type UserSeed struct {
	Username string   `yaml:"username"`
	Name     string   `yaml:"name"`
	Roles    []string `yaml:"roles"`
	Primary  string   `yaml:"primary"`
}

// Summary counts the rows a seed run created.
type Summary struct {
	Permissions     int
	Roles           int
	Users           int
	RolePermissions int64
	UserRoles       int64
}

// Load decodes a seed document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Seeder upserts seed documents. Existing rows, matched by code or username,
// are left as they are, so a seed file can be applied repeatedly.
type Seeder struct {
	txManager      *db.TransactionManager
	userRepo       user.Repository
	roleRepo       permission.RoleRepository
	permissionRepo permission.PermissionRepository
	rolePermRepo   permission.RolePermissionRepository
	userRoleRepo   permission.UserRoleRepository
	logger         logger.Interface
}

func NewSeeder(gdb *gorm.DB, log logger.Interface) *Seeder {
	return &Seeder{
		txManager:      db.NewTransactionManager(gdb),
		userRepo:       repository.NewUserRepository(gdb),
		roleRepo:       repository.NewRoleRepository(gdb),
		permissionRepo: repository.NewPermissionRepository(gdb),
		rolePermRepo:   repository.NewRolePermissionRepository(gdb),
		userRoleRepo:   repository.NewUserRoleRepository(gdb),
		logger:         log,
	}
}

// Apply writes f in one transaction.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Summary, error) {
	sum := &Summary{}
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		permIDs := make(map[string]uint)
		for _, p := range f.Permissions {
			if err := s.seedPermission(ctx, p, nil, permIDs, sum); err != nil {
				return err
			}
		}

		roleIDs := make(map[string]uint)
		for _, r := range f.Roles {
			if err := s.seedRole(ctx, r, permIDs, roleIDs, sum); err != nil {
				return err
			}
		}

		for _, u := range f.Users {
			if err := s.seedUser(ctx, u, roleIDs, sum); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("seed applied",
		"permissions", sum.Permissions,
		"roles", sum.Roles,
		"users", sum.Users,
		"role_permissions", sum.RolePermissions,
		"user_roles", sum.UserRoles,
	)
	return sum, nil
}

func (s *Seeder) seedPermission(ctx context.Context, seed PermissionSeed, parentID *uint, ids map[string]uint, sum *Summary) error {
	existing, err := s.permissionRepo.GetByCode(ctx, seed.Code)
	if err != nil {
		return err
	}

	var id uint
	if existing != nil {
		id = existing.ID()
	} else {
		p, err := permission.NewPermission(permission.PermissionAttrs{
			Name:          seed.Name,
			Code:          seed.Code,
			Type:          permission.PermissionType(seed.Type),
			ParentID:      parentID,
			Path:          seed.Path,
			Component:     seed.Component,
			Icon:          seed.Icon,
			SortOrder:     seed.SortOrder,
			ConflictCodes: seed.ConflictCodes,
		})
		if err != nil {
			return fmt.Errorf("permission %q: %w", seed.Code, err)
		}
		if err := s.permissionRepo.Create(ctx, p); err != nil {
			return err
		}
		id = p.ID()
		sum.Permissions++
	}
	ids[seed.Code] = id

	for _, child := range seed.Children {
		if err := s.seedPermission(ctx, child, &id, ids, sum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedRole(ctx context.Context, seed RoleSeed, permIDs, roleIDs map[string]uint, sum *Summary) error {
	role, err := s.roleRepo.GetByCode(ctx, seed.Code)
	if err != nil {
		return err
	}
	if role == nil {
		role, err = permission.NewRole(seed.Name, seed.Code, seed.Description)
		if err != nil {
			return fmt.Errorf("role %q: %w", seed.Code, err)
		}
		if err := s.roleRepo.Create(ctx, role); err != nil {
			return err
		}
		sum.Roles++
	}
	roleIDs[seed.Code] = role.ID()

	if len(seed.Permissions) == 0 {
		return nil
	}
	inherit := seed.Inherit == nil || *seed.Inherit
	now := time.Now()
	grants := make([]*permission.RolePermission, 0, len(seed.Permissions))
	for _, code := range seed.Permissions {
		id, ok := permIDs[code]
		if !ok {
			p, err := s.permissionRepo.GetByCode(ctx, code)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("role %q references unknown permission %q", seed.Code, code)
			}
			id = p.ID()
		}
		grants = append(grants, permission.NewRolePermission(role.ID(), id, inherit, nil, now))
	}
	n, err := s.rolePermRepo.Grant(ctx, grants)
	if err != nil {
		return err
	}
	sum.RolePermissions += n
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, seed UserSeed, roleIDs map[string]uint, sum *Summary) error {
	u, err := s.userRepo.GetByUsername(ctx, seed.Username)
	if err != nil {
		return err
	}
	if u == nil {
		u, err = user.NewUser(seed.Username, seed.Name)
		if err != nil {
			return fmt.Errorf("user %q: %w", seed.Username, err)
		}
		if err := s.userRepo.Create(ctx, u); err != nil {
			return err
		}
		sum.Users++
	}

	now := time.Now()
	grants := make([]*permission.UserRole, 0, len(seed.Roles))
	for _, code := range seed.Roles {
		id, err := s.roleID(ctx, code, roleIDs)
		if err != nil {
			return fmt.Errorf("user %q: %w", seed.Username, err)
		}
		grants = append(grants, permission.NewUserRole(u.ID(), id, nil, nil, nil, now))
	}
	if len(grants) > 0 {
		n, err := s.userRoleRepo.Grant(ctx, grants)
		if err != nil {
			return err
		}
		sum.UserRoles += n
	}

	if seed.Primary == "" {
		return nil
	}
	id, err := s.roleID(ctx, seed.Primary, roleIDs)
	if err != nil {
		return fmt.Errorf("user %q: %w", seed.Username, err)
	}
	if err := s.userRoleRepo.ClearPrimary(ctx, u.ID()); err != nil {
		return err
	}
	n, err := s.userRoleRepo.MarkPrimary(ctx, u.ID(), id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %q: primary role %q is not among the user's roles", seed.Username, seed.Primary)
	}
	return nil
}

func (s *Seeder) roleID(ctx context.Context, code string, known map[string]uint) (uint, error) {
	if id, ok := known[code]; ok {
		return id, nil
	}
	role, err := s.roleRepo.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if role == nil {
		return 0, fmt.Errorf("unknown role %q", code)
	}
	known[code] = role.ID()
	return role.ID(), nil
}
