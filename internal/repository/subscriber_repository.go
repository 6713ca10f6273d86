package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"jobboard/api/internal/database"
	"jobboard/api/internal/models"
)

const subscriberColumns = `id, name, email, skills, is_active, created_by, updated_by, created_at, updated_at, deleted_at`

type SubscriberRepository struct {
	db database.DBTX
}

func NewSubscriberRepository(db database.DBTX) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

func (r *SubscriberRepository) Create(ctx context.Context, s models.Subscriber) error {
	const query = `
		INSERT INTO subscribers (id, name, email, skills, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Email, s.Skills, s.IsActive, s.CreatedBy, s.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SubscriberRepository) GetByID(ctx context.Context, id string) (models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE id = $1 AND deleted_at IS NULL`
	return scanSubscriber(r.db.QueryRow(ctx, query, id))
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE email = $1 AND deleted_at IS NULL`
	return scanSubscriber(r.db.QueryRow(ctx, query, email))
}

func (r *SubscriberRepository) List(ctx context.Context, page models.Page) ([]models.Subscriber, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + subscriberColumns + ` FROM subscribers
		WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	subscribers, err := r.query(ctx, query, page.PageSize, page.Offset())
	return subscribers, total, err
}

func (r *SubscriberRepository) ListActive(ctx context.Context) ([]models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE deleted_at IS NULL AND is_active`
	return r.query(ctx, query)
}

// Upsert creates or updates the subscription owned by s.Email.
func (r *SubscriberRepository) Upsert(ctx context.Context, s models.Subscriber, actor models.Actor) error {
	const query = `
		INSERT INTO subscribers (id, name, email, skills, is_active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, NOW(), NOW())
		ON CONFLICT (email) WHERE deleted_at IS NULL
		DO UPDATE SET
			name = EXCLUDED.name,
			skills = EXCLUDED.skills,
			is_active = EXCLUDED.is_active,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Email, s.Skills, s.IsActive, actor)
	return err
}

func (r *SubscriberRepository) SoftDelete(ctx context.Context, id string, actor models.Actor) error {
	const query = `UPDATE subscribers SET deleted_at = NOW(), deleted_by = $2 WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id, actor)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

func (r *SubscriberRepository) query(ctx context.Context, query string, args ...any) ([]models.Subscriber, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscribers []models.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, rows.Err()
}

func scanSubscriber(row scanner) (models.Subscriber, error) {
	var s models.Subscriber
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Skills,
		&s.IsActive,
		&s.CreatedBy,
		&s.UpdatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscriber{}, ErrSubscriberNotFound
		}
		return models.Subscriber{}, err
	}
	return s, nil
}
