package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"linkhub/internal/config"
	"linkhub/internal/metrics"
	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	billingsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway wraps the Stripe API calls so they can be replaced in tests.
type StripeGateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	CreatePortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
	GetSubscription(id string) (*stripe.Subscription, error)
}

type stripeAPI struct{}

// NewStripeGateway sets the global Stripe key and returns the live gateway.
func NewStripeGateway(secretKey string) StripeGateway {
	stripe.Key = secretKey
	return stripeAPI{}
}

func (stripeAPI) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return checkoutsession.New(params)
}

func (stripeAPI) CreatePortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return billingsession.New(params)
}

func (stripeAPI) GetSubscription(id string) (*stripe.Subscription, error) {
	return subscriptionpkg.Get(id, nil)
}

// StripeService manages Stripe integration
type StripeService struct {
	cfg      *config.Config
	gw       StripeGateway
	userRepo repository.UserRepository
	subSvc   SubscriptionService
	logger   zerolog.Logger
}

func NewStripeService(cfg *config.Config, gw StripeGateway, userRepo repository.UserRepository, subSvc SubscriptionService, logger zerolog.Logger) *StripeService {
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, gw: gw, userRepo: userRepo, subSvc: subSvc, logger: lg}
}

// Checkout returns a billing portal URL for existing subscribers and a new
// subscription checkout URL for everyone else.
func (s *StripeService) Checkout(ctx context.Context, userID string) (string, error) {
	if s.gw == nil || !s.cfg.StripeEnabled() {
		return "", ErrProviderNotConfigured
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user for checkout session")
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	billingURL := s.cfg.AppURL + "/settings"
	if user.StripeSubscriptionID != nil && *user.StripeSubscriptionID != "" &&
		user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		sess, err := s.gw.CreatePortalSession(&stripe.BillingPortalSessionParams{
			Customer:  stripe.String(*user.StripeCustomerID),
			ReturnURL: stripe.String(billingURL),
		})
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe billing portal session")
			return "", fmt.Errorf("create billing portal session: %w", err)
		}
		return sess.URL, nil
	}

	sess, err := s.gw.CreateCheckoutSession(&stripe.CheckoutSessionParams{
		SuccessURL:               stripe.String(billingURL + "?success=true"),
		CancelURL:                stripe.String(billingURL + "?canceled=true"),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		CustomerEmail:            stripe.String(user.Email),
		LineItems:                []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(s.cfg.StripeProPriceID), Quantity: stripe.Int64(1)}},
		Metadata:                 map[string]string{"userId": user.ID},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies the Stripe-Signature header and applies the event once per event id.
func (s *StripeService) HandleWebhook(ctx context.Context, payload []byte, sig string) error {
	if s.cfg.StripeWebhookSecret == "" {
		s.logger.Error().Msg("Stripe webhook received but STRIPE_WEBHOOK_SECRET is not set")
		return ErrProviderNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, sig, s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		metrics.WebhookEvents.WithLabelValues(model.ProviderStripe, "unknown", metrics.ResultRejected).Inc()
		return ErrInvalidSignature
	}
	s.logger.Info().Str("event_type", string(event.Type)).Str("event_id", event.ID).Msg("Stripe webhook received")

	result, err := s.dispatch(ctx, &event)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(model.ProviderStripe, string(event.Type), metrics.ResultFailed).Inc()
		return err
	}
	metrics.WebhookEvents.WithLabelValues(model.ProviderStripe, string(event.Type), result).Inc()
	return nil
}

func (s *StripeService) dispatch(ctx context.Context, event *stripe.Event) (string, error) {
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return "", fmt.Errorf("invalid checkout.session data: %w", err)
		}
		if cs.Subscription == nil || cs.Subscription.ID == "" {
			s.logger.Info().Str("session_id", cs.ID).Msg("Checkout session has no subscription, skipping")
			return metrics.ResultIgnored, nil
		}
		userID := cs.Metadata["userId"]
		if _, err := uuid.Parse(userID); err != nil {
			s.logger.Error().Str("subscription_id", cs.Subscription.ID).Msg("Missing userId in checkout session metadata")
			return metrics.ResultIgnored, nil
		}
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if user == nil {
			s.logger.Error().Str("user_id", userID).Msg("No user found for checkout session")
			return metrics.ResultIgnored, nil
		}
		sub, err := s.gw.GetSubscription(cs.Subscription.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", cs.Subscription.ID).Msg("Failed to fetch subscription details")
			return "", fmt.Errorf("fetch subscription: %w", err)
		}
		upd, err := subscriptionBilling(sub)
		if err != nil {
			return "", err
		}
		upd.StripeSubscriptionID = &sub.ID
		if sub.Customer != nil && sub.Customer.ID != "" {
			upd.StripeCustomerID = &sub.Customer.ID
		}
		applied, err := s.subSvc.Activate(ctx, s.paymentEvent(event, user.ID), upd)
		return outcome(applied), err

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return "", fmt.Errorf("invalid invoice data: %w", err)
		}
		subID := invoiceSubscriptionID(&invoice)
		if subID == "" {
			s.logger.Info().Str("invoice_id", invoice.ID).Msg("Invoice has no subscription, skipping subscription update")
			return metrics.ResultIgnored, nil
		}
		user, err := s.userRepo.GetByStripeSubscriptionID(ctx, subID)
		if err != nil {
			return "", err
		}
		if user == nil {
			// The checkout.session.completed event links the subscription; it may arrive later.
			s.logger.Warn().Str("subscription_id", subID).Msg("No user holds Stripe subscription yet")
			return metrics.ResultIgnored, nil
		}
		sub, err := s.gw.GetSubscription(subID)
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", subID).Msg("Failed to fetch subscription for price ID")
			return "", fmt.Errorf("fetch subscription: %w", err)
		}
		upd, err := subscriptionBilling(sub)
		if err != nil {
			return "", err
		}
		applied, err := s.subSvc.Activate(ctx, s.paymentEvent(event, user.ID), upd)
		return outcome(applied), err

	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			return "", fmt.Errorf("invalid subscription data: %w", err)
		}
		user, err := s.userRepo.GetByStripeSubscriptionID(ctx, ss.ID)
		if err != nil {
			return "", err
		}
		if user == nil {
			s.logger.Info().Str("subscription_id", ss.ID).Msg("No user holds deleted Stripe subscription")
			return metrics.ResultIgnored, nil
		}
		applied, err := s.subSvc.Change(ctx, s.paymentEvent(event, user.ID),
			model.BillingUpdate{ClearPlan: true, ClearStripeSubscription: true}, model.BillingEventCancelled)
		return outcome(applied), err
	}

	s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	return metrics.ResultIgnored, nil
}

func (s *StripeService) paymentEvent(event *stripe.Event, userID string) model.PaymentEvent {
	return model.PaymentEvent{Provider: model.ProviderStripe, Key: event.ID, UserID: userID, Kind: string(event.Type)}
}

// subscriptionBilling reads the price and current period end from the first subscription item.
func subscriptionBilling(sub *stripe.Subscription) (model.BillingUpdate, error) {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return model.BillingUpdate{}, fmt.Errorf("subscription %s has no items", sub.ID)
	}
	item := sub.Items.Data[0]
	if item.Price == nil || item.Price.ID == "" {
		return model.BillingUpdate{}, fmt.Errorf("could not determine price ID for subscription %s", sub.ID)
	}
	planID := item.Price.ID
	end := time.Unix(item.CurrentPeriodEnd, 0).UTC()
	return model.BillingUpdate{PlanID: &planID, SubscriptionEndDate: &end}, nil
}

func invoiceSubscriptionID(invoice *stripe.Invoice) string {
	if invoice.Lines == nil {
		return ""
	}
	for _, line := range invoice.Lines.Data {
		if line.Subscription != nil && line.Subscription.ID != "" {
			return line.Subscription.ID
		}
	}
	return ""
}
