package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type RoleService struct {
	roles       RoleDirectory
	permissions PermissionLookup
	resolver    *PermissionResolver
	log         zerolog.Logger
	now         func() time.Time
}

func NewRoleService(roles RoleDirectory, permissions PermissionLookup, resolver *PermissionResolver, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, permissions: permissions, resolver: resolver, log: log, now: time.Now}
}

// Registration and the admin account depend on these role names.
func protectedRole(name string) bool {
	return name == models.AdminRoleName || name == models.UserRoleName
}

// checkPermissions rejects ids that do not name a live permission.
func (s *RoleService) checkPermissions(ctx context.Context, permissionIDs []string) error {
	for _, id := range permissionIDs {
		if _, err := s.permissions.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrPermissionNotFound) {
				return fmt.Errorf("%w: unknown permission %q", ErrInvalidInput, id)
			}
			return err
		}
	}
	return nil
}

// RoleDetail is a role with its permission ids expanded.
type RoleDetail struct {
	models.Role
	Permissions []models.Permission `json:"permissions"`
}

func (s *RoleService) Create(ctx context.Context, role models.Role, actor models.Actor) (models.Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return models.Role{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	role.ID = ids.New()
	role.CreatedBy = &actor
	role.CreatedAt = s.now().UTC()
	role.UpdatedAt = role.CreatedAt
	if role.PermissionIDs == nil {
		role.PermissionIDs = []string{}
	}
	if err := s.checkPermissions(ctx, role.PermissionIDs); err != nil {
		return models.Role{}, err
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return models.Role{}, mapStoreErr(err)
	}
	s.log.Info().Str("role_id", role.ID).Str("name", role.Name).Msg("role created")
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, id string) (RoleDetail, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return RoleDetail{}, mapStoreErr(err)
	}
	permissions, err := s.roles.PermissionsForRole(ctx, id)
	if err != nil {
		return RoleDetail{}, err
	}
	if permissions == nil {
		permissions = []models.Permission{}
	}
	return RoleDetail{Role: role, Permissions: permissions}, nil
}

func (s *RoleService) List(ctx context.Context, page models.Page) ([]models.Role, models.PageMeta, error) {
	roles, total, err := s.roles.List(ctx, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return roles, models.NewPageMeta(page, total), nil
}

// Update changes a role. Cached grants for it are dropped so the next login
// or refresh sees the change.
func (s *RoleService) Update(ctx context.Context, id string, upd repository.RoleUpdate, actor models.Actor) error {
	current, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		if protectedRole(current.Name) && trimmed != current.Name {
			return fmt.Errorf("%w: the %s role cannot be renamed", ErrProtected, current.Name)
		}
		upd.Name = &trimmed
	}
	if err := s.checkPermissions(ctx, upd.PermissionIDs); err != nil {
		return err
	}

	if err := s.roles.Update(ctx, id, upd, actor); err != nil {
		return mapStoreErr(err)
	}
	s.resolver.Invalidate(ctx, id)
	return nil
}

func (s *RoleService) Delete(ctx context.Context, id string, actor models.Actor) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if protectedRole(role.Name) {
		return fmt.Errorf("%w: the %s role cannot be deleted", ErrProtected, role.Name)
	}
	if err := s.roles.SoftDelete(ctx, id, actor); err != nil {
		return mapStoreErr(err)
	}
	s.resolver.Invalidate(ctx, id)
	s.log.Info().Str("role_id", id).Str("by", actor.ID).Msg("role deleted")
	return nil
}
