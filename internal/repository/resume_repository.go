package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"jobboard/api/internal/database"
	"jobboard/api/internal/models"
)

const resumeColumns = `id, email, user_id, url, status, company_id, job_id, history,
	created_by, updated_by, created_at, updated_at, deleted_at`

type ResumeRepository struct {
	db database.DBTX
}

func NewResumeRepository(db database.DBTX) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func (r *ResumeRepository) Create(ctx context.Context, resume models.Resume) error {
	const query = `
		INSERT INTO resumes (
			id, email, user_id, url, status, company_id, job_id, history, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
		)
	`
	_, err := r.db.Exec(ctx, query,
		resume.ID,
		resume.Email,
		resume.UserID,
		resume.URL,
		resume.Status,
		resume.CompanyID,
		resume.JobID,
		resume.History,
		resume.CreatedBy,
		resume.CreatedAt,
	)
	return classify(err)
}

func (r *ResumeRepository) GetByID(ctx context.Context, id string) (models.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND deleted_at IS NULL`
	return scanResume(r.db.QueryRow(ctx, query, id))
}

// List filters by status when non-empty.
func (r *ResumeRepository) List(ctx context.Context, status models.ResumeStatus, page models.Page) ([]models.Resume, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM resumes WHERE deleted_at IS NULL AND ($1::text = '' OR status = $1)`, status,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + resumeColumns + ` FROM resumes
		WHERE deleted_at IS NULL AND ($1::text = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	resumes, err := r.query(ctx, query, status, page.PageSize, page.Offset())
	return resumes, total, err
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID string) ([]models.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes
		WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	return r.query(ctx, query, userID)
}

// UpdateStatus sets the status and appends entry to the history in one statement.
func (r *ResumeRepository) UpdateStatus(ctx context.Context, id string, entry models.ResumeHistory) error {
	const query = `
		UPDATE resumes SET
			status = $2,
			history = history || $3::jsonb,
			updated_by = $4,
			updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.db.Exec(ctx, query, id, entry.Status, []models.ResumeHistory{entry}, entry.UpdatedBy, entry.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepository) SoftDelete(ctx context.Context, id string, actor models.Actor) error {
	const query = `UPDATE resumes SET deleted_at = NOW(), deleted_by = $2 WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id, actor)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepository) query(ctx context.Context, query string, args ...any) ([]models.Resume, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []models.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

func scanResume(row scanner) (models.Resume, error) {
	var resume models.Resume
	if err := row.Scan(
		&resume.ID,
		&resume.Email,
		&resume.UserID,
		&resume.URL,
		&resume.Status,
		&resume.CompanyID,
		&resume.JobID,
		&resume.History,
		&resume.CreatedBy,
		&resume.UpdatedBy,
		&resume.CreatedAt,
		&resume.UpdatedAt,
		&resume.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Resume{}, ErrResumeNotFound
		}
		return models.Resume{}, err
	}
	return resume, nil
}
