package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jobboard/api/internal/jobs"
	"jobboard/api/internal/service"
)

type Matcher interface {
	Run(ctx context.Context) (service.MatchReport, error)
}

type SessionSweeper interface {
	ClearExpired(ctx context.Context) (int64, error)
}

type Processor struct {
	matcher  Matcher
	sessions SessionSweeper
	logger   zerolog.Logger
}

type TaskPayload struct {
	Type       string `json:"type"`
	EnqueuedAt string `json:"enqueuedAt"`
}

func NewProcessor(matcher Matcher, sessions SessionSweeper, logger zerolog.Logger) *Processor {
	return &Processor{
		matcher:  matcher,
		sessions: sessions,
		logger:   logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case jobs.TaskMatch:
		return p.handleMatch(ctx, msg.ID)
	case jobs.TaskCleanup:
		return p.handleCleanup(ctx)
	default:
		// unknown tasks are acked so they do not cycle through the claimer forever
		p.logger.Warn().Str("type", payload.Type).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

func (p *Processor) handleMatch(ctx context.Context, messageID string) error {
	report, err := p.matcher.Run(ctx)
	if err != nil {
		return fmt.Errorf("match run: %w", err)
	}
	p.logger.Info().
		Str("message_id", messageID).
		Int("subscribers", report.Subscribers).
		Int("notified", report.Notified).
		Int("failed", report.Failed).
		Msg("job digests sent")
	return nil
}

func (p *Processor) handleCleanup(ctx context.Context) error {
	cleared, err := p.sessions.ClearExpired(ctx)
	if err != nil {
		return fmt.Errorf("clear expired sessions: %w", err)
	}
	p.logger.Info().Int64("cleared", cleared).Msg("expired sessions cleared")
	return nil
}
