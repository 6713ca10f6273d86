package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"jobboard/api/internal/database"
	"jobboard/api/internal/models"
)

const roleColumns = `r.id, r.name, r.description, r.is_active,
	COALESCE((SELECT array_agg(rp.permission_id ORDER BY rp.position) FROM role_permissions rp WHERE rp.role_id = r.id), '{}'),
	r.created_by, r.updated_by, r.created_at, r.updated_at, r.deleted_at`

type RoleRepository struct {
	db database.DBTX
}

func NewRoleRepository(db database.DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

type RoleUpdate struct {
	Name          *string
	Description   *string
	IsActive      *bool
	PermissionIDs []string // nil leaves the permission list untouched
}

func (r *RoleRepository) Create(ctx context.Context, role models.Role) error {
	const insertRole = `
		INSERT INTO roles (id, name, description, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertRole,
			role.ID,
			role.Name,
			role.Description,
			role.IsActive,
			role.CreatedBy,
			role.CreatedAt,
		); err != nil {
			return err
		}
		return replacePermissions(ctx, tx, role.ID, role.PermissionIDs)
	})
	return classify(err)
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles r WHERE r.id = $1 AND r.deleted_at IS NULL`
	return scanRole(r.db.QueryRow(ctx, query, id))
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles r WHERE r.name = $1 AND r.deleted_at IS NULL`
	return scanRole(r.db.QueryRow(ctx, query, name))
}

func (r *RoleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count)
	return count, err
}

func (r *RoleRepository) List(ctx context.Context, page models.Page) ([]models.Role, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM roles WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + roleColumns + ` FROM roles r WHERE r.deleted_at IS NULL ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, rows.Err()
}

// PermissionsForRole returns the live permissions of a role in stored order.
func (r *RoleRepository) PermissionsForRole(ctx context.Context, roleID string) ([]models.Permission, error) {
	query := `SELECT ` + permissionColumns + `
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1 AND p.deleted_at IS NULL
		ORDER BY rp.position`

	rows, err := r.db.Query(ctx, query, roleID)
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

func (r *RoleRepository) Update(ctx context.Context, id string, upd RoleUpdate, actor models.Actor) error {
	const query = `
		UPDATE roles SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			is_active = COALESCE($4, is_active),
			updated_by = $5,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query, id, upd.Name, upd.Description, upd.IsActive, actor)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrRoleNotFound
		}
		if upd.PermissionIDs == nil {
			return nil
		}
		return replacePermissions(ctx, tx, id, upd.PermissionIDs)
	})
	return classify(err)
}

func (r *RoleRepository) SoftDelete(ctx context.Context, id string, actor models.Actor) error {
	const query = `UPDATE roles SET deleted_at = NOW(), deleted_by = $2 WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id, actor)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// replacePermissions rewrites the ordered grant list of a role. Only live
// permissions are linked; any unknown or deleted id fails the whole
// transaction with ErrInvalidReference.
func replacePermissions(ctx context.Context, tx pgx.Tx, roleID string, permissionIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	distinct := dedupe(permissionIDs)
	if len(distinct) == 0 {
		return nil
	}
	const query = `
		INSERT INTO role_permissions (role_id, permission_id, position)
		SELECT $1, p.id, p.ord
		FROM unnest($2::text[]) WITH ORDINALITY AS p(id, ord)
		JOIN permissions live ON live.id = p.id AND live.deleted_at IS NULL
	`
	cmd, err := tx.Exec(ctx, query, roleID, distinct)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() != int64(len(distinct)) {
		return ErrInvalidReference
	}
	return nil
}

// dedupe keeps the first occurrence of each id.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func scanRole(row scanner) (models.Role, error) {
	var role models.Role
	if err := row.Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&role.IsActive,
		&role.PermissionIDs,
		&role.CreatedBy,
		&role.UpdatedBy,
		&role.CreatedAt,
		&role.UpdatedAt,
		&role.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, ErrRoleNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}
