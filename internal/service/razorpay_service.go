package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"linkhub/internal/config"
	"linkhub/internal/metrics"
	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RazorpayCheckout is handed to the client-side Razorpay widget.
// Exactly one of SubscriptionID and OrderID is set.
type RazorpayCheckout struct {
	SubscriptionID string
	OrderID        string
	Currency       string
	Amount         float64 // display units: rupees or dollars
	KeyID          string
}

// RazorpayVerifyInput carries the checkout callback fields.
type RazorpayVerifyInput struct {
	OrderID        string
	PaymentID      string
	Signature      string
	SubscriptionID string
}

type RazorpayCancelResult struct {
	AccessUntil *time.Time
}

type RazorpayService struct {
	cfg    *config.Config
	gw     RazorpayGateway
	users  repository.UserRepository
	subSvc SubscriptionService
	now    func() time.Time
	logger zerolog.Logger
}

// NewRazorpayService returns a service; gw may be nil when Razorpay is not configured.
func NewRazorpayService(cfg *config.Config, gw RazorpayGateway, users repository.UserRepository, subSvc SubscriptionService, logger zerolog.Logger) *RazorpayService {
	return &RazorpayService{
		cfg:    cfg,
		gw:     gw,
		users:  users,
		subSvc: subSvc,
		now:    time.Now,
		logger: logger.With().Str("service", "RazorpayService").Logger(),
	}
}

func (s *RazorpayService) configured() bool {
	return s.gw != nil && s.cfg.RazorpayEnabled()
}

// Checkout creates a recurring subscription when a plan exists for the
// detected currency, otherwise a one-month order.
func (s *RazorpayService) Checkout(ctx context.Context, userID, country string) (*RazorpayCheckout, error) {
	if !s.configured() {
		return nil, ErrProviderNotConfigured
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	currency := model.CurrencyForCountry(country)
	price := model.ProPrices[currency]
	out := &RazorpayCheckout{Currency: currency, KeyID: s.cfg.RazorpayKeyID, Amount: displayAmount(currency, price)}
	notes := map[string]interface{}{"userId": u.ID, "email": u.Email, "name": u.Name}

	if planID := s.cfg.RazorpayPlanID(currency); planID != "" {
		sub, err := s.gw.CreateSubscription(ctx, map[string]interface{}{
			"plan_id":         planID,
			"customer_notify": 1,
			"total_count":     12,
			"notes":           notes,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to create Razorpay subscription")
			return nil, err
		}
		out.SubscriptionID = stringField(sub, "id")
	} else {
		notes["plan"] = "pro"
		order, err := s.gw.CreateOrder(ctx, map[string]interface{}{
			"amount":   minorUnits(currency, price),
			"currency": currency,
			"receipt":  receiptID(u.ID, s.now()),
			"notes":    notes,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to create Razorpay order")
			return nil, err
		}
		out.OrderID = stringField(order, "id")
	}

	if err := s.users.UpdateCheckoutLocale(ctx, u.ID, currency, country); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Str("currency", currency).Bool("subscription", out.SubscriptionID != "").Msg("Razorpay checkout created")
	return out, nil
}

// Razorpay caps receipts at 40 characters; the user id is shortened to fit
// so the timestamp suffix survives.
func receiptID(userID string, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if room := 40 - len("order__") - len(ts); len(userID) > room {
		userID = userID[:room]
	}
	return "order_" + userID + "_" + ts
}

// minorUnits converts a ProPrices entry to the amount Razorpay charges: INR
// prices are whole rupees, USD prices are already cents.
func minorUnits(currency string, price int64) int64 {
	if currency == "INR" {
		return price * 100
	}
	return price
}

func displayAmount(currency string, price int64) float64 {
	if currency == "INR" {
		return float64(price)
	}
	return float64(price) / 100
}

// Verify checks the checkout callback signature and activates Pro for one month.
func (s *RazorpayService) Verify(ctx context.Context, userID string, in RazorpayVerifyInput) error {
	if !s.configured() {
		return ErrProviderNotConfigured
	}
	payload := PaymentSignaturePayload(in.OrderID, in.PaymentID, in.SubscriptionID)
	if in.PaymentID == "" || !VerifyHMACSHA256(s.cfg.RazorpayKeySecret, []byte(payload), in.Signature) {
		s.logger.Warn().Str("user_id", userID).Str("payment_id", in.PaymentID).Msg("Invalid Razorpay payment signature")
		return ErrInvalidSignature
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	currency := "INR"
	if u.Currency != nil && *u.Currency != "" {
		currency = *u.Currency
	}
	subID := in.SubscriptionID
	if subID == "" {
		subID = in.OrderID
	}
	end := s.now().AddDate(0, 1, 0)
	plan := "pro_" + currency
	_, err = s.subSvc.Activate(ctx,
		model.PaymentEvent{Provider: model.ProviderRazorpay, Key: in.PaymentID, UserID: u.ID, Kind: "verify"},
		model.BillingUpdate{
			RazorpayCustomerID:     &in.PaymentID,
			RazorpaySubscriptionID: &subID,
			PlanID:                 &plan,
			SubscriptionEndDate:    &end,
		})
	return err
}

// Cancel stops renewal at the end of the cycle. Access stays until the stored end date.
func (s *RazorpayService) Cancel(ctx context.Context, userID string) (*RazorpayCancelResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.RazorpaySubscriptionID == nil || *u.RazorpaySubscriptionID == "" {
		return nil, ErrNoActiveSubscription
	}
	subID := *u.RazorpaySubscriptionID
	if s.gw != nil {
		if err := s.gw.CancelSubscription(ctx, subID, true); err != nil {
			// Already cancelled upstream, or an order id; the local state still changes.
			s.logger.Warn().Err(err).Str("user_id", u.ID).Msg("Razorpay cancel failed, clearing local subscription anyway")
		}
	}
	_, err = s.subSvc.Change(ctx,
		model.PaymentEvent{Provider: model.ProviderRazorpay, Key: "cancel:" + subID, UserID: u.ID, Kind: "user.cancel"},
		model.BillingUpdate{ClearRazorpaySubscription: true},
		model.BillingEventCancelled)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Msg("Razorpay subscription cancelled")
	return &RazorpayCancelResult{AccessUntil: u.SubscriptionEndDate}, nil
}

// CancelForDeletion is best effort; account deletion proceeds regardless.
func (s *RazorpayService) CancelForDeletion(ctx context.Context, u *model.User) {
	if s.gw == nil || u.RazorpaySubscriptionID == nil || *u.RazorpaySubscriptionID == "" {
		return
	}
	if err := s.gw.CancelSubscription(ctx, *u.RazorpaySubscriptionID, false); err != nil {
		s.logger.Warn().Err(err).Str("user_id", u.ID).Msg("Failed to cancel Razorpay subscription for deleted user")
	}
}

// razorpayNotes tolerates Razorpay sending [] for empty notes.
type razorpayNotes map[string]string

func (n *razorpayNotes) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		var arr []interface{}
		if json.Unmarshal(b, &arr) == nil {
			*n = razorpayNotes{}
			return nil
		}
		return err
	}
	out := make(razorpayNotes, len(raw))
	for k, v := range raw {
		if str, ok := v.(string); ok {
			out[k] = str
		} else if v != nil {
			out[k] = fmt.Sprint(v)
		}
	}
	*n = out
	return nil
}

type razorpaySubscriptionEntity struct {
	ID         string        `json:"id"`
	PlanID     string        `json:"plan_id"`
	CustomerID string        `json:"customer_id"`
	CurrentEnd int64         `json:"current_end"`
	Notes      razorpayNotes `json:"notes"`
}

type razorpayPaymentEntity struct {
	ID       string        `json:"id"`
	OrderID  string        `json:"order_id"`
	Currency string        `json:"currency"`
	Notes    razorpayNotes `json:"notes"`
}

type razorpayOrderEntity struct {
	ID       string        `json:"id"`
	Currency string        `json:"currency"`
	Notes    razorpayNotes `json:"notes"`
}

type razorpayWebhookEvent struct {
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Subscription *struct {
			Entity razorpaySubscriptionEntity `json:"entity"`
		} `json:"subscription"`
		Payment *struct {
			Entity razorpayPaymentEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity razorpayOrderEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// HandleWebhook verifies and applies a Razorpay webhook delivery.
// eventID is the x-razorpay-event-id header and may be empty.
func (s *RazorpayService) HandleWebhook(ctx context.Context, body []byte, signature, eventID string) error {
	if !VerifyHMACSHA256(s.cfg.RazorpayWebhookSecret, body, signature) {
		s.logger.Error().Msg("Razorpay webhook signature verification failed")
		metrics.WebhookEvents.WithLabelValues(model.ProviderRazorpay, "unknown", metrics.ResultRejected).Inc()
		return ErrInvalidSignature
	}
	var ev razorpayWebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		metrics.WebhookEvents.WithLabelValues(model.ProviderRazorpay, "unknown", metrics.ResultRejected).Inc()
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	s.logger.Info().Str("event_type", ev.Event).Msg("Razorpay webhook received")

	result, err := s.dispatch(ctx, &ev, eventID)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(model.ProviderRazorpay, ev.Event, metrics.ResultFailed).Inc()
		return err
	}
	metrics.WebhookEvents.WithLabelValues(model.ProviderRazorpay, ev.Event, result).Inc()
	return nil
}

func (s *RazorpayService) dispatch(ctx context.Context, ev *razorpayWebhookEvent, eventID string) (string, error) {
	var sub *razorpaySubscriptionEntity
	if ev.Payload.Subscription != nil {
		sub = &ev.Payload.Subscription.Entity
	}
	var payment *razorpayPaymentEntity
	if ev.Payload.Payment != nil {
		payment = &ev.Payload.Payment.Entity
	}

	switch ev.Event {
	case "subscription.activated", "subscription.charged":
		if sub == nil {
			return metrics.ResultIgnored, nil
		}
		notesUserID := sub.Notes["userId"]
		if notesUserID == "" && payment != nil {
			notesUserID = payment.Notes["userId"]
		}
		u, err := s.findSubscriber(ctx, sub.ID, notesUserID)
		if err != nil {
			return "", err
		}
		if u == nil {
			s.logger.Error().Str("subscription_id", sub.ID).Msg("No user found for Razorpay subscription")
			return metrics.ResultIgnored, nil
		}
		key := "sub:" + sub.ID + ":" + strconv.FormatInt(sub.CurrentEnd, 10)
		if payment != nil && payment.ID != "" {
			key = payment.ID
		}
		upd := model.BillingUpdate{RazorpaySubscriptionID: &sub.ID}
		if sub.CustomerID != "" {
			upd.RazorpayCustomerID = &sub.CustomerID
		}
		if sub.PlanID != "" {
			upd.PlanID = &sub.PlanID
		}
		if sub.CurrentEnd > 0 {
			end := time.Unix(sub.CurrentEnd, 0).UTC()
			upd.SubscriptionEndDate = &end
		}
		applied, err := s.subSvc.Activate(ctx, model.PaymentEvent{Provider: model.ProviderRazorpay, Key: key, UserID: u.ID, Kind: ev.Event}, upd)
		return outcome(applied), err

	case "subscription.cancelled", "subscription.expired", "subscription.paused", "subscription.halted":
		if sub == nil {
			return metrics.ResultIgnored, nil
		}
		u, err := s.users.GetByRazorpaySubscriptionID(ctx, sub.ID)
		if err != nil {
			return "", err
		}
		if u == nil {
			s.logger.Info().Str("subscription_id", sub.ID).Str("event_type", ev.Event).Msg("No user holds Razorpay subscription, ignoring")
			return metrics.ResultIgnored, nil
		}
		key := eventID
		if key == "" {
			key = ev.Event + ":" + sub.ID + ":" + strconv.FormatInt(ev.CreatedAt, 10)
		}
		upd := model.BillingUpdate{ClearPlan: true}
		eventType := model.BillingEventCancelled
		switch ev.Event {
		case "subscription.expired":
			eventType = model.BillingEventExpired
		case "subscription.paused", "subscription.halted":
			now := s.now()
			upd = model.BillingUpdate{SubscriptionEndDate: &now}
			eventType = model.BillingEventPaused
		}
		applied, err := s.subSvc.Change(ctx, model.PaymentEvent{Provider: model.ProviderRazorpay, Key: key, UserID: u.ID, Kind: ev.Event}, upd, eventType)
		return outcome(applied), err

	case "payment.captured", "order.paid":
		if payment == nil {
			return metrics.ResultIgnored, nil
		}
		notes := payment.Notes
		currency := payment.Currency
		if ev.Event == "order.paid" && ev.Payload.Order != nil {
			order := ev.Payload.Order.Entity
			if len(order.Notes) > 0 {
				notes = order.Notes
			}
			if currency == "" {
				currency = order.Currency
			}
		}
		userID := notes["userId"]
		if userID == "" || notes["plan"] != "pro" {
			return metrics.ResultIgnored, nil
		}
		if _, err := uuid.Parse(userID); err != nil {
			s.logger.Warn().Str("user_id", userID).Msg("Malformed userId in Razorpay notes")
			return metrics.ResultIgnored, nil
		}
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if u == nil {
			s.logger.Error().Str("user_id", userID).Msg("No user found for Razorpay payment")
			return metrics.ResultIgnored, nil
		}
		end := s.now().AddDate(0, 1, 0)
		plan := "pro_" + currency
		applied, err := s.subSvc.Activate(ctx,
			model.PaymentEvent{Provider: model.ProviderRazorpay, Key: payment.ID, UserID: u.ID, Kind: ev.Event},
			model.BillingUpdate{RazorpayCustomerID: &payment.ID, PlanID: &plan, SubscriptionEndDate: &end})
		return outcome(applied), err

	case "payment.authorized":
		if payment != nil {
			s.logger.Info().Str("payment_id", payment.ID).Msg("Razorpay payment authorized, waiting for capture")
		}
		return metrics.ResultIgnored, nil
	}

	s.logger.Info().Str("event_type", ev.Event).Msg("Unhandled Razorpay webhook event")
	return metrics.ResultIgnored, nil
}

func (s *RazorpayService) findSubscriber(ctx context.Context, subID, notesUserID string) (*model.User, error) {
	u, err := s.users.GetByRazorpaySubscriptionID(ctx, subID)
	if err != nil || u != nil {
		return u, err
	}
	if _, err := uuid.Parse(notesUserID); err != nil {
		return nil, nil
	}
	return s.users.GetByID(ctx, notesUserID)
}

func outcome(applied bool) string {
	if applied {
		return metrics.ResultApplied
	}
	return metrics.ResultDuplicate
}
