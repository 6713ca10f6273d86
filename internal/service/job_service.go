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

type JobService struct {
	jobs JobStore
	log  zerolog.Logger
	now  func() time.Time
}

func NewJobService(jobs JobStore, log zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, log: log, now: time.Now}
}

func validateJob(job *models.Job) error {
	job.Name = strings.TrimSpace(job.Name)
	job.Skills = normalizeSkills(job.Skills)
	switch {
	case job.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case len(job.Skills) == 0:
		return fmt.Errorf("%w: at least one skill is required", ErrInvalidInput)
	case job.Salary < 0 || job.Quantity < 0:
		return fmt.Errorf("%w: salary and quantity must not be negative", ErrInvalidInput)
	case !job.EndDate.IsZero() && job.EndDate.Before(job.StartDate):
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return nil
}

func (s *JobService) Create(ctx context.Context, job models.Job, actor models.Actor) (models.Job, error) {
	if err := validateJob(&job); err != nil {
		return models.Job{}, err
	}
	job.ID = ids.New()
	job.CreatedBy = &actor
	job.CreatedAt = s.now().UTC()
	job.UpdatedAt = job.CreatedAt

	if err := s.jobs.Create(ctx, job); err != nil {
		return models.Job{}, mapStoreErr(err)
	}
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	return job, mapStoreErr(err)
}

func (s *JobService) List(ctx context.Context, filter repository.JobFilter, page models.Page) ([]models.Job, models.PageMeta, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Skills = normalizeSkills(filter.Skills)

	jobs, total, err := s.jobs.List(ctx, filter, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return jobs, models.NewPageMeta(page, total), nil
}

// Update replaces the editable fields of job id.
func (s *JobService) Update(ctx context.Context, id string, job models.Job, actor models.Actor) error {
	if err := validateJob(&job); err != nil {
		return err
	}
	job.ID = id
	return mapStoreErr(s.jobs.Update(ctx, job, actor))
}

func (s *JobService) Delete(ctx context.Context, id string, actor models.Actor) error {
	return mapStoreErr(s.jobs.SoftDelete(ctx, id, actor))
}
