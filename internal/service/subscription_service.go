package service

import (
	"context"
	"time"

	"linkhub/internal/metrics"
	"linkhub/internal/model"
	"linkhub/internal/pubsub"
	"linkhub/internal/repository"

	"github.com/rs/zerolog"
)

// SubscriptionStatus is what clients poll after checkout.
type SubscriptionStatus struct {
	IsPro               bool
	PlanName            string
	PlanID              string
	SubscriptionEndDate *time.Time
	Provider            string
	Currency            string
	State               model.SubscriptionState
}

type SubscriptionService interface {
	Status(ctx context.Context, userID string) (*SubscriptionStatus, error)
	// Activate applies a Pro activation at most once per event key.
	Activate(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate) (bool, error)
	// Change applies a non-activation billing change (cancel, expiry, pause) at most once per event key.
	Change(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate, eventType string) (bool, error)
}

type subscriptionService struct {
	users     repository.UserRepository
	subs      repository.SubscriptionRepository
	publisher pubsub.Publisher
	topic     string
	now       func() time.Time
	logger    zerolog.Logger
}

func NewSubscriptionService(users repository.UserRepository, subs repository.SubscriptionRepository, publisher pubsub.Publisher, topic string, logger zerolog.Logger) SubscriptionService {
	if publisher == nil {
		publisher = pubsub.NoopPublisher{}
	}
	return &subscriptionService{
		users:     users,
		subs:      subs,
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
		logger:    logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

func (s *subscriptionService) Status(ctx context.Context, userID string) (*SubscriptionStatus, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	now := s.now()
	st := &SubscriptionStatus{
		IsPro:               u.IsPro(now),
		PlanName:            model.PlanFor(u, now).Name,
		SubscriptionEndDate: u.SubscriptionEndDate,
		Provider:            u.Provider(),
		State:               u.State(now),
	}
	if u.PlanID != nil {
		st.PlanID = *u.PlanID
	}
	if u.Currency != nil {
		st.Currency = *u.Currency
	}
	return st, nil
}

func (s *subscriptionService) Activate(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate) (bool, error) {
	applied, err := s.subs.ApplyOnce(ctx, ev, upd)
	if err != nil {
		return false, err
	}
	log := s.logger.Info().Str("user_id", ev.UserID).Str("provider", ev.Provider).Str("event_key", ev.Key).Str("kind", ev.Kind)
	if !applied {
		log.Msg("Billing event already processed, skipping")
		return false, nil
	}
	log.Msg("Pro activation applied")
	metrics.BillingActivations.WithLabelValues(ev.Provider).Inc()
	s.publish(ctx, ev, upd, model.BillingEventActivated)
	return true, nil
}

func (s *subscriptionService) Change(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate, eventType string) (bool, error) {
	applied, err := s.subs.ApplyOnce(ctx, ev, upd)
	if err != nil {
		return false, err
	}
	if !applied {
		s.logger.Info().Str("user_id", ev.UserID).Str("event_key", ev.Key).Msg("Billing event already processed, skipping")
		return false, nil
	}
	s.logger.Info().Str("user_id", ev.UserID).Str("provider", ev.Provider).Str("kind", ev.Kind).Msg("Billing change applied")
	s.publish(ctx, ev, upd, eventType)
	return true, nil
}

// publish never fails the caller; the billing write has already committed.
func (s *subscriptionService) publish(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate, eventType string) {
	msg := model.BillingEvent{
		Type:                eventType,
		UserID:              ev.UserID,
		Provider:            ev.Provider,
		SubscriptionEndDate: upd.SubscriptionEndDate,
		OccurredAt:          s.now().UTC(),
	}
	if upd.PlanID != nil {
		msg.PlanID = *upd.PlanID
	}
	if _, err := pubsub.PublishJSON(ctx, s.publisher, s.topic, msg); err != nil {
		s.logger.Error().Err(err).Str("user_id", ev.UserID).Msg("Failed to publish billing event")
	}
}
