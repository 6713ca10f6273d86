package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/models"
)

func TestMatchJobs(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Skills: []string{"GO", "POSTGRES"}},
		{ID: "2", Skills: []string{"java"}},
		{ID: "3", Skills: []string{"Rust", "go"}},
	}

	matched := MatchJobs(models.Subscriber{Skills: []string{"go"}}, jobs)
	require.Len(t, matched, 2)
	assert.Equal(t, "1", matched[0].ID)
	assert.Equal(t, "3", matched[1].ID)

	assert.Empty(t, MatchJobs(models.Subscriber{}, jobs))
	assert.Empty(t, MatchJobs(models.Subscriber{Skills: []string{"cobol"}}, jobs))
}

type recordingNotifier struct {
	sent map[string]int
	fail string
}

func (n *recordingNotifier) Notify(_ context.Context, sub models.Subscriber, jobs []models.Job) error {
	if sub.Email == n.fail {
		return errors.New("smtp down")
	}
	n.sent[sub.Email] = len(jobs)
	return nil
}

func TestMatchingServiceRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	jobs := &fakeJobs{items: map[string]models.Job{
		"open":   {ID: "open", Skills: []string{"GO"}, IsActive: true, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)},
		"closed": {ID: "closed", Skills: []string{"GO"}, IsActive: true, StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0)},
		"off":    {ID: "off", Skills: []string{"GO"}, IsActive: false, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)},
	}}
	subs := &fakeSubscribers{byEmail: map[string]models.Subscriber{
		"a@example.com": {Email: "a@example.com", Skills: []string{"GO"}, IsActive: true},
		"b@example.com": {Email: "b@example.com", Skills: []string{"JAVA"}, IsActive: true},
		"c@example.com": {Email: "c@example.com", Skills: []string{"GO"}, IsActive: false},
		"d@example.com": {Email: "d@example.com", Skills: []string{"GO"}, IsActive: true},
	}}
	notifier := &recordingNotifier{sent: map[string]int{}, fail: "d@example.com"}

	svc := NewMatchingService(subs, jobs, notifier, zerolog.Nop())
	svc.now = func() time.Time { return now }

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MatchReport{Subscribers: 3, Notified: 1, Failed: 1}, report)
	assert.Equal(t, map[string]int{"a@example.com": 1}, notifier.sent)
}

func TestLogNotifier(t *testing.T) {
	err := LogNotifier{Log: zerolog.Nop()}.Notify(context.Background(),
		models.Subscriber{Email: "a@example.com"}, []models.Job{{Name: "x"}})
	assert.NoError(t, err)
}
