package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"jobboard/api/internal/database"
	"jobboard/api/internal/models"
)

const permissionColumns = `p.id, p.name, p.api_path, p.method, p.module,
	p.created_by, p.updated_by, p.created_at, p.updated_at, p.deleted_at`

type PermissionRepository struct {
	db database.DBTX
}

func NewPermissionRepository(db database.DBTX) *PermissionRepository {
	return &PermissionRepository{db: db}
}

type PermissionUpdate struct {
	Name    *string
	APIPath *string
	Method  *string
	Module  *string
}

// Create fails with ErrDuplicate when (api_path, method) is already taken.
func (r *PermissionRepository) Create(ctx context.Context, p models.Permission) error {
	const query = `
		INSERT INTO permissions (id, name, api_path, method, module, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.APIPath, p.Method, p.Module, p.CreatedBy, p.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PermissionRepository) GetByID(ctx context.Context, id string) (models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions p WHERE p.id = $1 AND p.deleted_at IS NULL`
	return scanPermission(r.db.QueryRow(ctx, query, id))
}

func (r *PermissionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&count)
	return count, err
}

// List filters by module when it is non-empty.
func (r *PermissionRepository) List(ctx context.Context, module string, page models.Page) ([]models.Permission, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM permissions WHERE deleted_at IS NULL AND ($1::text = '' OR module = $1)`, module,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + permissionColumns + ` FROM permissions p
		WHERE p.deleted_at IS NULL AND ($1::text = '' OR p.module = $1)
		ORDER BY p.module, p.created_at LIMIT $2 OFFSET $3`
	permissions, err := r.query(ctx, query, module, page.PageSize, page.Offset())
	return permissions, total, err
}

func (r *PermissionRepository) ListAll(ctx context.Context) ([]models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions p WHERE p.deleted_at IS NULL ORDER BY p.created_at`
	return r.query(ctx, query)
}

func (r *PermissionRepository) Update(ctx context.Context, id string, upd PermissionUpdate, actor models.Actor) error {
	const query = `
		UPDATE permissions SET
			name = COALESCE($2, name),
			api_path = COALESCE($3, api_path),
			method = COALESCE($4, method),
			module = COALESCE($5, module),
			updated_by = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.db.Exec(ctx, query, id, upd.Name, upd.APIPath, upd.Method, upd.Module, actor)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (r *PermissionRepository) SoftDelete(ctx context.Context, id string, actor models.Actor) error {
	const query = `UPDATE permissions SET deleted_at = NOW(), deleted_by = $2 WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id, actor)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

// RoleIDsUsing lists the roles granting a permission, for cache invalidation.
func (r *PermissionRepository) RoleIDsUsing(ctx context.Context, permissionID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT role_id FROM role_permissions WHERE permission_id = $1`, permissionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PermissionRepository) query(ctx context.Context, query string, args ...any) ([]models.Permission, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []models.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}

func scanPermission(row scanner) (models.Permission, error) {
	var p models.Permission
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.APIPath,
		&p.Method,
		&p.Module,
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Permission{}, ErrPermissionNotFound
		}
		return models.Permission{}, err
	}
	return p, nil
}
