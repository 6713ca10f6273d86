package service

import (
	"context"

	"github.com/rs/zerolog"

	"jobboard/api/internal/models"
)

// RoleGrant is what a role gives its holders.
type RoleGrant struct {
	RoleID      string
	RoleName    string
	Permissions []models.Permission
}

// PermissionResolver maps a role id to its permission set. It never fails:
// a missing or inactive role, or a lookup error, resolves to no permissions.
type PermissionResolver struct {
	roles RoleStore
	cache PermissionCache
	log   zerolog.Logger
}

func NewPermissionResolver(roles RoleStore, cache PermissionCache, log zerolog.Logger) *PermissionResolver {
	return &PermissionResolver{roles: roles, cache: cache, log: log}
}

func (r *PermissionResolver) Resolve(ctx context.Context, roleID string) RoleGrant {
	grant := RoleGrant{RoleID: roleID, Permissions: []models.Permission{}}
	if roleID == "" {
		return grant
	}

	role, err := r.roles.GetByID(ctx, roleID)
	if err != nil {
		r.log.Debug().Err(err).Str("role_id", roleID).Msg("role lookup failed, granting nothing")
		return grant
	}
	grant.RoleName = role.Name
	if !role.IsActive {
		return grant
	}

	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, roleID)
		if err != nil {
			r.log.Warn().Err(err).Str("role_id", roleID).Msg("permission cache read failed")
		} else if ok {
			grant.Permissions = cached
			return grant
		}
	}

	permissions, err := r.roles.PermissionsForRole(ctx, roleID)
	if err != nil {
		r.log.Warn().Err(err).Str("role_id", roleID).Msg("permission lookup failed, granting nothing")
		return grant
	}
	if permissions != nil {
		grant.Permissions = permissions
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, roleID, grant.Permissions); err != nil {
			r.log.Warn().Err(err).Str("role_id", roleID).Msg("permission cache write failed")
		}
	}
	return grant
}

// Invalidate drops cached grants after a role or permission changes.
func (r *PermissionResolver) Invalidate(ctx context.Context, roleIDs ...string) {
	if r.cache == nil || len(roleIDs) == 0 {
		return
	}
	if err := r.cache.Invalidate(ctx, roleIDs...); err != nil {
		r.log.Warn().Err(err).Strs("role_ids", roleIDs).Msg("permission cache invalidation failed")
	}
}

func permissionKeys(permissions []models.Permission) []string {
	keys := make([]string, 0, len(permissions))
	for _, p := range permissions {
		keys = append(keys, p.Key())
	}
	return keys
}
