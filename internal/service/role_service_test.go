package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

func newRoleFixture(t *testing.T) (*RoleService, authFixture, *stubCache) {
	t.Helper()
	f := newAuthFixture(t)
	cache := &stubCache{data: map[string][]models.Permission{}}
	f.resolver = NewPermissionResolver(f.db.Roles(), cache, zerolog.Nop())
	return NewRoleService(f.db.Roles(), f.db.Permissions(), f.resolver, zerolog.Nop()), f, cache
}

func TestRoleServiceCreateAndGet(t *testing.T) {
	svc, _, _ := newRoleFixture(t)
	ctx := context.Background()

	role, err := svc.Create(ctx, models.Role{Name: " HR ", IsActive: true, PermissionIDs: []string{createJob.ID}}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, "HR", role.Name)

	detail, err := svc.Get(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, detail.Permissions, 1)
	assert.Equal(t, createJob.ID, detail.Permissions[0].ID)

	_, err = svc.Create(ctx, models.Role{Name: "HR"}, adminActor)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Create(ctx, models.Role{Name: "  "}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoleServiceUpdateInvalidatesCache(t *testing.T) {
	svc, f, cache := newRoleFixture(t)
	ctx := context.Background()

	f.resolver.Resolve(ctx, "role-user")
	require.Contains(t, cache.data, "role-user")

	require.NoError(t, svc.Update(ctx, "role-user", repository.RoleUpdate{PermissionIDs: []string{createJob.ID}}, adminActor))
	assert.Contains(t, cache.invalidated, "role-user")
	assert.Len(t, f.resolver.Resolve(ctx, "role-user").Permissions, 1)
}

func TestRoleServiceRejectsUnknownPermissions(t *testing.T) {
	svc, f, cache := newRoleFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Role{Name: "HR", PermissionIDs: []string{createJob.ID, "missing"}}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `"missing"`)

	deleted := time.Now()
	f.db.PutPermission(models.Permission{ID: "gone", APIPath: "/api/v1/old", Method: "GET", DeletedAt: &deleted})
	err = svc.Update(ctx, "role-user", repository.RoleUpdate{PermissionIDs: []string{"gone"}}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotContains(t, cache.invalidated, "role-user")

	detail, err := svc.Get(ctx, "role-user")
	require.NoError(t, err)
	assert.Empty(t, detail.Permissions)
}

func TestRoleServiceProtectsBuiltInRoles(t *testing.T) {
	svc, _, _ := newRoleFixture(t)
	ctx := context.Background()

	for _, id := range []string{"role-admin", "role-user"} {
		assert.ErrorIs(t, svc.Delete(ctx, id, adminActor), ErrProtected, id)

		renamed := "ROOT"
		assert.ErrorIs(t, svc.Update(ctx, id, repository.RoleUpdate{Name: &renamed}, adminActor), ErrProtected, id)

		desc := "everything"
		assert.NoError(t, svc.Update(ctx, id, repository.RoleUpdate{Description: &desc}, adminActor), id)
	}

	// a no-op rename keeps working
	same := " USER "
	assert.NoError(t, svc.Update(ctx, "role-user", repository.RoleUpdate{Name: &same}, adminActor))
}

func TestRoleServiceDelete(t *testing.T) {
	svc, f, cache := newRoleFixture(t)
	ctx := context.Background()

	role, err := svc.Create(ctx, models.Role{Name: "HR", IsActive: true, PermissionIDs: []string{createJob.ID}}, adminActor)
	require.NoError(t, err)
	f.resolver.Resolve(ctx, role.ID)

	require.NoError(t, svc.Delete(ctx, role.ID, adminActor))
	assert.Contains(t, cache.invalidated, role.ID)
	assert.Empty(t, f.resolver.Resolve(ctx, role.ID).Permissions)

	_, err = svc.Get(ctx, role.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
