package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
)

type SubscriberService struct {
	subscribers SubscriberStore
	log         zerolog.Logger
	now         func() time.Time
}

func NewSubscriberService(subscribers SubscriberStore, log zerolog.Logger) *SubscriberService {
	return &SubscriberService{subscribers: subscribers, log: log, now: time.Now}
}

func (s *SubscriberService) Create(ctx context.Context, sub models.Subscriber, actor models.Actor) (models.Subscriber, error) {
	sub.Email = normalizeEmail(sub.Email)
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Skills = normalizeSkills(sub.Skills)
	if sub.Email == "" || sub.Name == "" {
		return models.Subscriber{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	sub.ID = ids.New()
	sub.IsActive = true
	sub.CreatedBy = &actor
	sub.CreatedAt = s.now().UTC()
	sub.UpdatedAt = sub.CreatedAt
	if err := s.subscribers.Create(ctx, sub); err != nil {
		return models.Subscriber{}, mapStoreErr(err)
	}
	return sub, nil
}

func (s *SubscriberService) Get(ctx context.Context, id string) (models.Subscriber, error) {
	sub, err := s.subscribers.GetByID(ctx, id)
	return sub, mapStoreErr(err)
}

func (s *SubscriberService) List(ctx context.Context, page models.Page) ([]models.Subscriber, models.PageMeta, error) {
	subs, total, err := s.subscribers.List(ctx, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return subs, models.NewPageMeta(page, total), nil
}

// SkillsOf returns the subscription owned by the caller's email.
func (s *SubscriberService) SkillsOf(ctx context.Context, actor models.Actor) (models.Subscriber, error) {
	sub, err := s.subscribers.FindByEmail(ctx, normalizeEmail(actor.Email))
	return sub, mapStoreErr(err)
}

type SubscriptionInput struct {
	Name     string
	Skills   []string
	IsActive *bool
}

// Subscribe creates or replaces the caller's own subscription, keyed by email.
func (s *SubscriberService) Subscribe(ctx context.Context, input SubscriptionInput, actor models.Actor) (models.Subscriber, error) {
	email := normalizeEmail(actor.Email)
	if email == "" {
		return models.Subscriber{}, fmt.Errorf("%w: caller has no email", ErrInvalidInput)
	}
	sub := models.Subscriber{
		ID:       ids.New(),
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Skills:   normalizeSkills(input.Skills),
		IsActive: true,
	}
	if input.IsActive != nil {
		sub.IsActive = *input.IsActive
	}
	if sub.Name == "" {
		sub.Name = email
	}

	if err := s.subscribers.Upsert(ctx, sub, actor); err != nil {
		return models.Subscriber{}, err
	}
	return s.SkillsOf(ctx, actor)
}

func (s *SubscriberService) Delete(ctx context.Context, id string, actor models.Actor) error {
	return mapStoreErr(s.subscribers.SoftDelete(ctx, id, actor))
}
