package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/config"
	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
)

const (
	AdminEmail = "admin@gmail.com"
	UserEmail  = "user@gmail.com"
)

var ErrMissingPassword = errors.New("seed passwords must be set")

type PermissionStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p models.Permission) error
	ListAll(ctx context.Context) ([]models.Permission, error)
}

type RoleStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, role models.Role) error
	FindByName(ctx context.Context, name string) (models.Role, error)
}

type UserStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user models.User) error
}

type Seeder struct {
	permissions PermissionStore
	roles       RoleStore
	users       UserStore
	hasher      func(string) ([]byte, error)
	cfg         config.SeedConfig
	log         zerolog.Logger
	now         func() time.Time
}

func New(permissions PermissionStore, roles RoleStore, users UserStore, hasher func(string) ([]byte, error), cfg config.SeedConfig, log zerolog.Logger) *Seeder {
	return &Seeder{
		permissions: permissions,
		roles:       roles,
		users:       users,
		hasher:      hasher,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Run fills each of the permission, role and user tables only when it is
// empty, so a populated database is never touched.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	permissionCount, err := s.permissions.Count(ctx)
	if err != nil {
		return fmt.Errorf("count permissions: %w", err)
	}
	roleCount, err := s.roles.Count(ctx)
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	if permissionCount > 0 && roleCount > 0 && userCount > 0 {
		s.log.Info().Msg("database already initialised, skipping seed")
		return nil
	}

	if permissionCount == 0 {
		if err := s.seedPermissions(ctx); err != nil {
			return err
		}
	}
	if roleCount == 0 {
		if err := s.seedRoles(ctx); err != nil {
			return err
		}
	}
	if userCount == 0 {
		if err := s.seedUsers(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPermissions(ctx context.Context) error {
	now := s.now().UTC()
	for _, p := range Catalogue() {
		p.ID = ids.New()
		p.CreatedAt = now
		if err := s.permissions.Create(ctx, p); err != nil {
			return fmt.Errorf("seed permission %s %s: %w", p.Method, p.APIPath, err)
		}
	}
	s.log.Info().Int("count", len(catalogue)).Msg("permissions seeded")
	return nil
}

func (s *Seeder) seedRoles(ctx context.Context) error {
	all, err := s.permissions.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list permissions: %w", err)
	}
	permissionIDs := make([]string, len(all))
	for i, p := range all {
		permissionIDs[i] = p.ID
	}

	now := s.now().UTC()
	roles := []models.Role{
		{
			ID:            ids.New(),
			Name:          models.AdminRoleName,
			Description:   "Full access",
			IsActive:      true,
			PermissionIDs: permissionIDs,
			CreatedAt:     now,
		},
		{
			ID:            ids.New(),
			Name:          models.UserRoleName,
			Description:   "Registered users",
			IsActive:      true,
			PermissionIDs: []string{},
			CreatedAt:     now,
		},
	}
	for _, role := range roles {
		if err := s.roles.Create(ctx, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}
	s.log.Info().Int("admin_permissions", len(permissionIDs)).Msg("roles seeded")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	if s.cfg.AdminPassword == "" || s.cfg.UserPassword == "" {
		return ErrMissingPassword
	}

	admin, err := s.roles.FindByName(ctx, models.AdminRoleName)
	if err != nil {
		return fmt.Errorf("find admin role: %w", err)
	}
	user, err := s.roles.FindByName(ctx, models.UserRoleName)
	if err != nil {
		return fmt.Errorf("find user role: %w", err)
	}

	accounts := []struct {
		name, email, password, roleID string
	}{
		{"Admin", AdminEmail, s.cfg.AdminPassword, admin.ID},
		{"User", UserEmail, s.cfg.UserPassword, user.ID},
	}
	now := s.now().UTC()
	for _, a := range accounts {
		hash, err := s.hasher(a.password)
		if err != nil {
			return err
		}
		if err := s.users.Create(ctx, models.User{
			ID:           ids.New(),
			Name:         a.name,
			Email:        a.email,
			PasswordHash: hash,
			RoleID:       a.roleID,
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", a.email, err)
		}
	}
	s.log.Info().Msg("users seeded")
	return nil
}
