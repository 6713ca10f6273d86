package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

var allowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

type PermissionService struct {
	permissions PermissionDirectory
	resolver    *PermissionResolver
	log         zerolog.Logger
	now         func() time.Time
}

func NewPermissionService(permissions PermissionDirectory, resolver *PermissionResolver, log zerolog.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, resolver: resolver, log: log, now: time.Now}
}

func normalizePermission(method, apiPath string) (string, string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	apiPath = strings.TrimSpace(apiPath)
	if !allowedMethods[method] {
		return "", "", fmt.Errorf("%w: unsupported method %q", ErrInvalidInput, method)
	}
	if !strings.HasPrefix(apiPath, "/") {
		return "", "", fmt.Errorf("%w: apiPath must start with /", ErrInvalidInput)
	}
	return method, apiPath, nil
}

// Create registers a permission; (apiPath, method) must be unused.
func (s *PermissionService) Create(ctx context.Context, p models.Permission, actor models.Actor) (models.Permission, error) {
	method, apiPath, err := normalizePermission(p.Method, p.APIPath)
	if err != nil {
		return models.Permission{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return models.Permission{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	p.ID = ids.New()
	p.Method = method
	p.APIPath = apiPath
	p.Module = strings.ToUpper(strings.TrimSpace(p.Module))
	p.CreatedBy = &actor
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt

	if err := s.permissions.Create(ctx, p); err != nil {
		return models.Permission{}, mapStoreErr(err)
	}
	return p, nil
}

func (s *PermissionService) Get(ctx context.Context, id string) (models.Permission, error) {
	p, err := s.permissions.GetByID(ctx, id)
	return p, mapStoreErr(err)
}

func (s *PermissionService) List(ctx context.Context, module string, page models.Page) ([]models.Permission, models.PageMeta, error) {
	permissions, total, err := s.permissions.List(ctx, strings.ToUpper(strings.TrimSpace(module)), page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return permissions, models.NewPageMeta(page, total), nil
}

func (s *PermissionService) Update(ctx context.Context, id string, upd repository.PermissionUpdate, actor models.Actor) error {
	current, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	method, apiPath := current.Method, current.APIPath
	if upd.Method != nil {
		method = *upd.Method
	}
	if upd.APIPath != nil {
		apiPath = *upd.APIPath
	}
	method, apiPath, err = normalizePermission(method, apiPath)
	if err != nil {
		return err
	}
	upd.Method, upd.APIPath = &method, &apiPath
	if upd.Module != nil {
		module := strings.ToUpper(strings.TrimSpace(*upd.Module))
		upd.Module = &module
	}

	if err := s.permissions.Update(ctx, id, upd, actor); err != nil {
		return mapStoreErr(err)
	}
	s.invalidateHolders(ctx, id)
	return nil
}

func (s *PermissionService) Delete(ctx context.Context, id string, actor models.Actor) error {
	roleIDs, err := s.permissions.RoleIDsUsing(ctx, id)
	if err != nil {
		return err
	}
	if err := s.permissions.SoftDelete(ctx, id, actor); err != nil {
		return mapStoreErr(err)
	}
	s.resolver.Invalidate(ctx, roleIDs...)
	return nil
}

func (s *PermissionService) invalidateHolders(ctx context.Context, permissionID string) {
	roleIDs, err := s.permissions.RoleIDsUsing(ctx, permissionID)
	if err != nil {
		s.log.Warn().Err(err).Str("permission_id", permissionID).Msg("cannot list roles for cache invalidation")
		return
	}
	s.resolver.Invalidate(ctx, roleIDs...)
}
