package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/middleware"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type SubscriberHandler struct {
	subscriberService service.SubscriberService
	validate          *validator.Validate
	logger            zerolog.Logger
}

func NewSubscriberHandler(subscriberService service.SubscriberService, validate *validator.Validate, logger zerolog.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		subscriberService: subscriberService,
		validate:          validate,
		logger:            logger,
	}
}

// Subscribe captures a visitor email for a profile owner.
func (h *SubscriberHandler) Subscribe(ctx context.Context, input *operation.SubscribeInput) (*operation.SubscribeOutput, error) {
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}
	sub, err := h.subscriberService.Subscribe(ctx, input.Body.UserID, input.Body.Email, input.Body.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return nil, huma.Error404NotFound("User not found")
		case errors.Is(err, service.ErrEmailCaptureDisabled):
			return nil, badRequest("", "Email capture not enabled")
		}
		h.logger.Error().Err(err).Str("user_id", input.Body.UserID).Msg("Failed to save subscriber")
		return nil, huma.Error500InternalServerError("Failed to subscribe", err)
	}
	return &operation.SubscribeOutput{
		Body: dto.SubscribeResponseDTO{Success: true, Subscriber: toSubscriberDTO(sub)},
	}, nil
}

func (h *SubscriberHandler) ListSubscribers(ctx context.Context, input *operation.ListSubscribersInput) (*operation.ListSubscribersOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := h.subscriberService.List(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list subscribers")
		return nil, huma.Error500InternalServerError("Failed to list subscribers", err)
	}
	out := make([]dto.SubscriberDTO, 0, len(subs))
	for i := range subs {
		out = append(out, toSubscriberDTO(&subs[i]))
	}
	return &operation.ListSubscribersOutput{Body: out}, nil
}

// ExportSubscribers streams the caller's subscribers as a CSV download.
func (h *SubscriberHandler) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	var buf bytes.Buffer
	if err := h.subscriberService.ExportCSV(r.Context(), userID, &buf); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to export subscribers")
		writeError(w, http.StatusInternalServerError, "Failed to export subscribers")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subscribers.csv"`)
	_, _ = w.Write(buf.Bytes())
}
