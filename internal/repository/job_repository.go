package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"jobboard/api/internal/database"
	"jobboard/api/internal/models"
)

const jobColumns = `id, name, skills, company_id, company_name, location, salary, quantity, level,
	description, logo, start_date, end_date, is_active, created_by, updated_by, created_at, updated_at, deleted_at`

type JobRepository struct {
	db database.DBTX
}

func NewJobRepository(db database.DBTX) *JobRepository {
	return &JobRepository{db: db}
}

// JobFilter narrows listings; empty fields are ignored.
type JobFilter struct {
	Name     string
	Location string
	Skills   []string
}

func (r *JobRepository) Create(ctx context.Context, job models.Job) error {
	const query = `
		INSERT INTO jobs (
			id, name, skills, company_id, company_name, location, salary, quantity, level,
			description, logo, start_date, end_date, is_active, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16
		)
	`
	_, err := r.db.Exec(ctx, query,
		job.ID,
		job.Name,
		job.Skills,
		job.Company.ID,
		job.Company.Name,
		job.Location,
		job.Salary,
		job.Quantity,
		job.Level,
		job.Description,
		job.Logo,
		job.StartDate,
		job.EndDate,
		job.IsActive,
		job.CreatedBy,
		job.CreatedAt,
	)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND deleted_at IS NULL`
	return scanJob(r.db.QueryRow(ctx, query, id))
}

func (r *JobRepository) List(ctx context.Context, filter JobFilter, page models.Page) ([]models.Job, int, error) {
	const where = `
		WHERE deleted_at IS NULL
		AND ($1::text = '' OR name ILIKE '%' || $1 || '%')
		AND ($2::text = '' OR location ILIKE '%' || $2 || '%')
		AND (cardinality($3::text[]) = 0 OR skills && $3::text[])`

	skills := filter.Skills
	if skills == nil {
		skills = []string{}
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+where, filter.Name, filter.Location, skills).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + jobColumns + ` FROM jobs` + where + ` ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	jobs, err := r.query(ctx, query, filter.Name, filter.Location, skills, page.PageSize, page.Offset())
	return jobs, total, err
}

// ListOpen returns active jobs whose application window contains at.
func (r *JobRepository) ListOpen(ctx context.Context, at time.Time) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE deleted_at IS NULL AND is_active AND start_date <= $1 AND end_date >= $1
		ORDER BY created_at DESC`
	return r.query(ctx, query, at)
}

func (r *JobRepository) Update(ctx context.Context, job models.Job, actor models.Actor) error {
	const query = `
		UPDATE jobs SET
			name = $2, skills = $3, company_id = $4, company_name = $5, location = $6,
			salary = $7, quantity = $8, level = $9, description = $10, logo = $11,
			start_date = $12, end_date = $13, is_active = $14,
			updated_by = $15, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.db.Exec(ctx, query,
		job.ID,
		job.Name,
		job.Skills,
		job.Company.ID,
		job.Company.Name,
		job.Location,
		job.Salary,
		job.Quantity,
		job.Level,
		job.Description,
		job.Logo,
		job.StartDate,
		job.EndDate,
		job.IsActive,
		actor,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) SoftDelete(ctx context.Context, id string, actor models.Actor) error {
	const query = `UPDATE jobs SET deleted_at = NOW(), deleted_by = $2 WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id, actor)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) query(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row scanner) (models.Job, error) {
	var job models.Job
	if err := row.Scan(
		&job.ID,
		&job.Name,
		&job.Skills,
		&job.Company.ID,
		&job.Company.Name,
		&job.Location,
		&job.Salary,
		&job.Quantity,
		&job.Level,
		&job.Description,
		&job.Logo,
		&job.StartDate,
		&job.EndDate,
		&job.IsActive,
		&job.CreatedBy,
		&job.UpdatedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Job{}, ErrJobNotFound
		}
		return models.Job{}, err
	}
	return job, nil
}
