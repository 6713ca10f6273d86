package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type ResumeService struct {
	resumes ResumeStore
	jobs    JobLookup
	log     zerolog.Logger
	now     func() time.Time
}

func NewResumeService(resumes ResumeStore, jobs JobLookup, log zerolog.Logger) *ResumeService {
	return &ResumeService{resumes: resumes, jobs: jobs, log: log, now: time.Now}
}

type CreateResumeInput struct {
	URL       string
	CompanyID string
	JobID     string
}

// Create files a resume for the calling user. It starts PENDING with a
// single history entry.
func (s *ResumeService) Create(ctx context.Context, input CreateResumeInput, actor models.Actor) (models.Resume, error) {
	if strings.TrimSpace(input.URL) == "" || input.CompanyID == "" || input.JobID == "" {
		return models.Resume{}, fmt.Errorf("%w: url, companyId and jobId are required", ErrInvalidInput)
	}
	job, err := s.jobs.GetByID(ctx, input.JobID)
	if errors.Is(err, repository.ErrJobNotFound) {
		return models.Resume{}, fmt.Errorf("%w: unknown job %q", ErrInvalidInput, input.JobID)
	}
	if err != nil {
		return models.Resume{}, err
	}
	if job.Company.ID != "" && job.Company.ID != input.CompanyID {
		return models.Resume{}, fmt.Errorf("%w: job %q does not belong to company %q", ErrInvalidInput, input.JobID, input.CompanyID)
	}

	now := s.now().UTC()
	resume := models.Resume{
		ID:        ids.New(),
		Email:     actor.Email,
		UserID:    actor.ID,
		URL:       strings.TrimSpace(input.URL),
		Status:    models.ResumeStatusPending,
		CompanyID: input.CompanyID,
		JobID:     input.JobID,
		History: []models.ResumeHistory{
			{Status: models.ResumeStatusPending, UpdatedAt: now, UpdatedBy: actor},
		},
		CreatedBy: &actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.resumes.Create(ctx, resume); err != nil {
		return models.Resume{}, mapStoreErr(err)
	}
	return resume, nil
}

func (s *ResumeService) Get(ctx context.Context, id string) (models.Resume, error) {
	resume, err := s.resumes.GetByID(ctx, id)
	return resume, mapStoreErr(err)
}

func (s *ResumeService) List(ctx context.Context, status models.ResumeStatus, page models.Page) ([]models.Resume, models.PageMeta, error) {
	if status != "" && !status.Valid() {
		return nil, models.PageMeta{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	resumes, total, err := s.resumes.List(ctx, status, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return resumes, models.NewPageMeta(page, total), nil
}

func (s *ResumeService) ListByUser(ctx context.Context, userID string) ([]models.Resume, error) {
	resumes, err := s.resumes.ListByUser(ctx, userID)
	if resumes == nil && err == nil {
		resumes = []models.Resume{}
	}
	return resumes, err
}

// UpdateStatus moves a resume to status and records who did it.
func (s *ResumeService) UpdateStatus(ctx context.Context, id string, status models.ResumeStatus, actor models.Actor) error {
	status = models.ResumeStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	entry := models.ResumeHistory{Status: status, UpdatedAt: s.now().UTC(), UpdatedBy: actor}
	return mapStoreErr(s.resumes.UpdateStatus(ctx, id, entry))
}

func (s *ResumeService) Delete(ctx context.Context, id string, actor models.Actor) error {
	return mapStoreErr(s.resumes.SoftDelete(ctx, id, actor))
}
