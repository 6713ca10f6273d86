package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/repository/memory"
)

func newPermissionFixture() (*PermissionService, *fakePermissions, *stubCache) {
	store := newFakePermissions()
	cache := &stubCache{data: map[string][]models.Permission{}}
	resolver := NewPermissionResolver(memory.New().Roles(), cache, zerolog.Nop())
	return NewPermissionService(store, resolver, zerolog.Nop()), store, cache
}

func TestPermissionServiceCreateNormalises(t *testing.T) {
	svc, _, _ := newPermissionFixture()

	p, err := svc.Create(context.Background(), models.Permission{
		Name: "List jobs", APIPath: " /api/v1/jobs ", Method: "get", Module: "jobs",
	}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, "GET /api/v1/jobs", p.Key())
	assert.Equal(t, "JOBS", p.Module)
	assert.NotEmpty(t, p.ID)
}

func TestPermissionServiceCreateRejects(t *testing.T) {
	svc, _, _ := newPermissionFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Permission{Name: "x", APIPath: "/a", Method: "TRACE"}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, models.Permission{Name: "x", APIPath: "a", Method: "GET"}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, models.Permission{APIPath: "/a", Method: "GET"}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, models.Permission{Name: "x", APIPath: "/a", Method: "GET"}, adminActor)
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.Permission{Name: "y", APIPath: "/a", Method: "get"}, adminActor)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestPermissionServiceUpdateInvalidatesHolders(t *testing.T) {
	svc, store, cache := newPermissionFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, models.Permission{Name: "x", APIPath: "/a", Method: "GET"}, adminActor)
	require.NoError(t, err)
	store.usedBy[p.ID] = []string{"r1", "r2"}

	method := "post"
	require.NoError(t, svc.Update(ctx, p.ID, repository.PermissionUpdate{Method: &method}, adminActor))
	assert.ElementsMatch(t, []string{"r1", "r2"}, cache.invalidated)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "POST /a", got.Key())

	assert.ErrorIs(t, svc.Update(ctx, "missing", repository.PermissionUpdate{Method: &method}, adminActor), ErrNotFound)
}

func TestPermissionServiceDeleteInvalidatesHolders(t *testing.T) {
	svc, store, cache := newPermissionFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, models.Permission{Name: "x", APIPath: "/a", Method: "GET"}, adminActor)
	require.NoError(t, err)
	store.usedBy[p.ID] = []string{"r1"}

	require.NoError(t, svc.Delete(ctx, p.ID, adminActor))
	assert.Equal(t, []string{"r1"}, cache.invalidated)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, adminActor), ErrNotFound)
}
