package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/models"
)

// MatchJobs returns the jobs sharing at least one skill with the
// subscriber, compared case-insensitively, in the order given.
func MatchJobs(sub models.Subscriber, jobs []models.Job) []models.Job {
	wanted := make(map[string]struct{}, len(sub.Skills))
	for _, skill := range sub.Skills {
		wanted[strings.ToUpper(strings.TrimSpace(skill))] = struct{}{}
	}

	var matched []models.Job
	for _, job := range jobs {
		for _, skill := range job.Skills {
			if _, ok := wanted[strings.ToUpper(strings.TrimSpace(skill))]; ok {
				matched = append(matched, job)
				break
			}
		}
	}
	return matched
}

// Notifier delivers a digest of matching jobs to one subscriber.
type Notifier interface {
	Notify(ctx context.Context, sub models.Subscriber, jobs []models.Job) error
}

// LogNotifier writes digests to the log instead of sending mail.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Notify(_ context.Context, sub models.Subscriber, jobs []models.Job) error {
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Name
	}
	n.Log.Info().
		Str("email", sub.Email).
		Int("jobs", len(jobs)).
		Strs("names", names).
		Msg("job digest")
	return nil
}

type MatchReport struct {
	Subscribers int
	Notified    int
	Failed      int
}

type MatchingService struct {
	subscribers SubscriberStore
	jobs        JobStore
	notifier    Notifier
	log         zerolog.Logger
	now         func() time.Time
}

func NewMatchingService(subscribers SubscriberStore, jobs JobStore, notifier Notifier, log zerolog.Logger) *MatchingService {
	return &MatchingService{subscribers: subscribers, jobs: jobs, notifier: notifier, log: log, now: time.Now}
}

// Run notifies every active subscriber about currently open jobs that match
// their skills. A failed delivery is counted and does not stop the run.
func (s *MatchingService) Run(ctx context.Context) (MatchReport, error) {
	subs, err := s.subscribers.ListActive(ctx)
	if err != nil {
		return MatchReport{}, err
	}
	open, err := s.jobs.ListOpen(ctx, s.now().UTC())
	if err != nil {
		return MatchReport{}, err
	}

	report := MatchReport{Subscribers: len(subs)}
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		matched := MatchJobs(sub, open)
		if len(matched) == 0 {
			continue
		}
		if err := s.notifier.Notify(ctx, sub, matched); err != nil {
			report.Failed++
			s.log.Warn().Err(err).Str("email", sub.Email).Msg("job digest delivery failed")
			continue
		}
		report.Notified++
	}
	return report, nil
}
