package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/models"
)

const (
	updateRoleSQL      = `(?s)^UPDATE\s+roles\s+SET\s+name\s*=\s*COALESCE\(\$2,\s*name\).*WHERE\s+id\s*=\s*\$1\s+AND\s+deleted_at\s+IS\s+NULL$`
	insertRoleSQL      = `(?s)^INSERT\s+INTO\s+roles\s+\(id,\s*name,`
	clearGrantsSQL     = `^DELETE\s+FROM\s+role_permissions\s+WHERE\s+role_id\s*=\s*\$1$`
	insertGrantsSQL    = `(?s)^INSERT\s+INTO\s+role_permissions.*unnest\(\$2::text\[\]\)\s+WITH\s+ORDINALITY.*live\.deleted_at\s+IS\s+NULL$`
	permissionsOfRoles = `(?s)FROM\s+role_permissions\s+rp\s+JOIN\s+permissions\s+p\s+ON\s+p\.id\s*=\s*rp\.permission_id\s+WHERE\s+rp\.role_id\s*=\s*\$1\s+AND\s+p\.deleted_at\s+IS\s+NULL\s+ORDER\s+BY\s+rp\.position$`
)

var hrActor = models.Actor{ID: "admin", Email: "admin@example.com"}

func TestRoleUpdateReplacesGrantsInOrder(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRoleRepository(mock)
	name := "HR"

	mock.ExpectBegin()
	mock.ExpectExec(updateRoleSQL).
		WithArgs("r1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), hrActor).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(clearGrantsSQL).WithArgs("r1").WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(insertGrantsSQL).
		WithArgs("r1", []string{"p2", "p1"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "r1", RoleUpdate{Name: &name, PermissionIDs: []string{"p2", "p1", "p2"}}, hrActor)
	require.NoError(t, err)
}

func TestRoleUpdateLeavesGrantsWhenNil(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRoleRepository(mock)
	active := false

	mock.ExpectBegin()
	mock.ExpectExec(updateRoleSQL).
		WithArgs("r1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), hrActor).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), "r1", RoleUpdate{IsActive: &active}, hrActor))
}

func TestRoleUpdateMissingRoleRollsBack(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRoleRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(updateRoleSQL).
		WithArgs("gone", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), hrActor).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), "gone", RoleUpdate{PermissionIDs: []string{"p1"}}, hrActor)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRoleUpdateRejectsDeadPermissions(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRoleRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(updateRoleSQL).
		WithArgs("r1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), hrActor).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(clearGrantsSQL).WithArgs("r1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	// p-deleted is soft-deleted, so the live join links only one row
	mock.ExpectExec(insertGrantsSQL).
		WithArgs("r1", []string{"p1", "p-deleted"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), "r1", RoleUpdate{PermissionIDs: []string{"p1", "p-deleted"}}, hrActor)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestRoleCreateClassifiesConstraintErrors(t *testing.T) {
	role := models.Role{
		ID:            "r2",
		Name:          "HR",
		IsActive:      true,
		PermissionIDs: []string{"p1"},
		CreatedBy:     &hrActor,
		CreatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("foreign key", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectExec(insertRoleSQL).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(clearGrantsSQL).WithArgs("r2").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(insertGrantsSQL).
			WithArgs("r2", []string{"p1"}).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "role_permissions_permission_id_fkey"})
		mock.ExpectRollback()

		assert.ErrorIs(t, NewRoleRepository(mock).Create(context.Background(), role), ErrInvalidReference)
	})

	t.Run("unique name", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectExec(insertRoleSQL).WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		assert.ErrorIs(t, NewRoleRepository(mock).Create(context.Background(), role), ErrDuplicate)
	})
}

func TestPermissionsForRoleKeepsStoredOrder(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRoleRepository(mock)
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	none := (*models.Actor)(nil)

	rows := pgxmock.NewRows([]string{
		"id", "name", "api_path", "method", "module",
		"created_by", "updated_by", "created_at", "updated_at", "deleted_at",
	}).
		AddRow("p2", "Delete job", "/api/v1/jobs/:id", "DELETE", "JOBS", none, none, at, at, (*time.Time)(nil)).
		AddRow("p1", "Create job", "/api/v1/jobs", "POST", "JOBS", none, none, at, at, (*time.Time)(nil))
	mock.ExpectQuery(permissionsOfRoles).WithArgs("r1").WillReturnRows(rows)

	perms, err := repo.PermissionsForRole(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, "DELETE /api/v1/jobs/:id", perms[0].Key())
	assert.Equal(t, "POST /api/v1/jobs", perms[1].Key())
}

func TestRoleSoftDeleteMissing(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`(?s)^UPDATE\s+roles\s+SET\s+deleted_at\s*=\s*NOW\(\),\s*deleted_by\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+AND\s+deleted_at\s+IS\s+NULL$`).
		WithArgs("gone", hrActor).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, NewRoleRepository(mock).SoftDelete(context.Background(), "gone", hrActor), ErrRoleNotFound)
}

func TestUserCreateClassifiesMissingRole(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users\s+\(`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "users_role_id_fkey"})

	err := NewUserRepository(mock).Create(context.Background(), models.User{ID: "u1", Email: "a@example.com", RoleID: "nope"})
	assert.ErrorIs(t, err, ErrInvalidReference)
}
