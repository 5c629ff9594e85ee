package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const maxWebhookBytes = 1 << 20

// SubscriptionHandler serves plan status and both payment providers.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	razorpayService     *service.RazorpayService
	stripeService       *service.StripeService
	validate            *validator.Validate
	logger              zerolog.Logger
}

func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	razorpayService *service.RazorpayService,
	stripeService *service.StripeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		razorpayService:     razorpayService,
		stripeService:       stripeService,
		validate:            validate,
		logger:              logger,
	}
}

func (h *SubscriptionHandler) billingError(err error, userID, msg string) error {
	switch {
	case errors.Is(err, service.ErrProviderNotConfigured):
		return dto.NewError(http.StatusServiceUnavailable, "Payment provider not configured")
	case errors.Is(err, service.ErrUserNotFound):
		return huma.Error404NotFound("User not found")
	case errors.Is(err, service.ErrInvalidSignature):
		return badRequest("razorpay_signature", "Invalid signature")
	case errors.Is(err, service.ErrNoActiveSubscription):
		return badRequest("", "No active subscription found")
	}
	h.logger.Error().Err(err).Str("user_id", userID).Msg(msg)
	return huma.Error500InternalServerError(msg, err)
}

// GetStatus is polled by clients waiting for a payment to land.
func (h *SubscriptionHandler) GetStatus(ctx context.Context, input *operation.SubscriptionStatusInput) (*operation.SubscriptionStatusOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	st, err := h.subscriptionService.Status(ctx, userID)
	if err != nil {
		return nil, h.billingError(err, userID, "Failed to get subscription status")
	}
	return &operation.SubscriptionStatusOutput{
		Body: dto.SubscriptionStatusDTO{
			IsPro:               st.IsPro,
			PlanName:            st.PlanName,
			PlanID:              st.PlanID,
			SubscriptionEndDate: st.SubscriptionEndDate,
			Provider:            st.Provider,
			Currency:            st.Currency,
			State:               string(st.State),
		},
	}, nil
}

func (h *SubscriptionHandler) RazorpayCheckout(ctx context.Context, input *operation.RazorpayCheckoutInput) (*operation.RazorpayCheckoutOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	co, err := h.razorpayService.Checkout(ctx, userID, input.Info.Country)
	if err != nil {
		return nil, h.billingError(err, userID, "Failed to create checkout")
	}
	return &operation.RazorpayCheckoutOutput{
		Body: dto.RazorpayCheckoutResponseDTO{
			SubscriptionID: co.SubscriptionID,
			OrderID:        co.OrderID,
			Currency:       co.Currency,
			Amount:         co.Amount,
			KeyID:          co.KeyID,
		},
	}, nil
}

// RazorpayVerify checks the checkout signature and activates Pro.
func (h *SubscriptionHandler) RazorpayVerify(ctx context.Context, input *operation.RazorpayVerifyInput) (*operation.RazorpayVerifyOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}
	b := input.Body
	if b.OrderID == "" && b.SubscriptionID == "" {
		return nil, badRequest("razorpay_order_id", "Order or subscription id is required")
	}
	err = h.razorpayService.Verify(ctx, userID, service.RazorpayVerifyInput{
		OrderID:        b.OrderID,
		PaymentID:      b.PaymentID,
		Signature:      b.Signature,
		SubscriptionID: b.SubscriptionID,
	})
	if err != nil {
		return nil, h.billingError(err, userID, "Failed to verify payment")
	}
	return &operation.RazorpayVerifyOutput{Body: dto.SuccessResponse{Success: true}}, nil
}

func (h *SubscriptionHandler) RazorpayCancel(ctx context.Context, input *operation.RazorpayCancelInput) (*operation.RazorpayCancelOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.razorpayService.Cancel(ctx, userID)
	if err != nil {
		return nil, h.billingError(err, userID, "Failed to cancel subscription")
	}
	return &operation.RazorpayCancelOutput{
		Body: dto.RazorpayCancelResponseDTO{Success: true, Message: "Subscription cancelled", AccessUntil: res.AccessUntil},
	}, nil
}

func (h *SubscriptionHandler) StripeCheckout(ctx context.Context, input *operation.StripeCheckoutInput) (*operation.StripeCheckoutOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	url, err := h.stripeService.Checkout(ctx, userID)
	if err != nil {
		return nil, h.billingError(err, userID, "Failed to create checkout session")
	}
	return &operation.StripeCheckoutOutput{Body: dto.CheckoutURLResponseDTO{URL: url}}, nil
}

// RazorpayWebhook needs the raw body for signature verification.
func (h *SubscriptionHandler) RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	err = h.razorpayService.HandleWebhook(r.Context(), body, r.Header.Get("x-razorpay-signature"), r.Header.Get("x-razorpay-event-id"))
	h.webhookResponse(w, err, "razorpay")
}

// StripeWebhook needs the raw body for signature verification.
func (h *SubscriptionHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	err = h.stripeService.HandleWebhook(r.Context(), body, r.Header.Get("Stripe-Signature"))
	h.webhookResponse(w, err, "stripe")
}

func (h *SubscriptionHandler) webhookResponse(w http.ResponseWriter, err error, provider string) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dto.WebhookResponseDTO{Received: true})
	case errors.Is(err, service.ErrInvalidSignature):
		writeError(w, http.StatusBadRequest, "Invalid signature")
	case errors.Is(err, service.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, "Invalid payload")
	case errors.Is(err, service.ErrProviderNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Payment provider not configured")
	default:
		// 500 makes the provider retry; replays are deduplicated.
		h.logger.Error().Err(err).Str("provider", provider).Msg("Webhook processing failed")
		writeError(w, http.StatusInternalServerError, "Webhook processing failed")
	}
}
