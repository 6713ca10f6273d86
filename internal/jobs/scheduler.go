package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"jobboard/api/internal/config"
)

// Task types understood by the worker.
const (
	TaskMatch   = "match"
	TaskCleanup = "cleanup"
)

// Scheduler only enqueues; the worker process does the work so that
// several API replicas never run a digest twice.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	cfg   config.MatchingConfig
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, cfg config.MatchingConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.enqueueLogged(TaskMatch) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.CleanupSchedule, func() { s.enqueueLogged(TaskCleanup) }); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().
		Str("match", s.cfg.Schedule).
		Str("cleanup", s.cfg.CleanupSchedule).
		Msg("scheduler started")
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		<-s.cron.Stop().Done()
		cancel()
	}()
	return func() {
		<-ctx.Done()
	}
}

func (s *Scheduler) enqueueLogged(taskType string) {
	if err := s.Enqueue(context.Background(), taskType); err != nil {
		s.log.Error().Err(err).Str("type", taskType).Msg("enqueue task failed")
	}
}

// Enqueue appends one task to the matching stream.
func (s *Scheduler) Enqueue(ctx context.Context, taskType string) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Stream,
		Values: map[string]any{
			"type":       taskType,
			"enqueuedAt": time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	return err
}
