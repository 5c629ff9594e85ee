package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SubscriberService interface {
	Subscribe(ctx context.Context, userID, email string, name *string) (*model.EmailSubscriber, error)
	List(ctx context.Context, userID string) ([]model.EmailSubscriber, error)
	ExportCSV(ctx context.Context, userID string, w io.Writer) error
}

type subscriberService struct {
	subscribers repository.SubscriberRepository
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	now         func() time.Time
	logger      zerolog.Logger
}

func NewSubscriberService(subscribers repository.SubscriberRepository, users repository.UserRepository, profiles repository.ProfileRepository, logger zerolog.Logger) SubscriberService {
	return &subscriberService{
		subscribers: subscribers,
		users:       users,
		profiles:    profiles,
		now:         time.Now,
		logger:      logger.With().Str("service", "SubscriberService").Logger(),
	}
}

func (s *subscriberService) Subscribe(ctx context.Context, userID, email string, name *string) (*model.EmailSubscriber, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.EmailCaptureEnabled || !u.IsPro(s.now()) {
		return nil, ErrEmailCaptureDisabled
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}
	return s.subscribers.Upsert(ctx, userID, strings.ToLower(strings.TrimSpace(email)), name)
}

func (s *subscriberService) List(ctx context.Context, userID string) ([]model.EmailSubscriber, error) {
	return s.subscribers.ListByUser(ctx, userID)
}

func (s *subscriberService) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	subs, err := s.subscribers.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "name", "subscribed_at"}); err != nil {
		return err
	}
	for _, sub := range subs {
		name := ""
		if sub.Name != nil {
			name = *sub.Name
		}
		if err := cw.Write([]string{sub.Email, name, sub.CreatedAt.UTC().Format(time.RFC3339)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
