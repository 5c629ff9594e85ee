package handler

import (
	"context"
	"errors"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           zerolog.Logger
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

func (h *AnalyticsHandler) GetAnalytics(ctx context.Context, input *operation.GetAnalyticsInput) (*operation.GetAnalyticsOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := h.analyticsService.Summary(ctx, userID, input.Days)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to build analytics summary")
		return nil, huma.Error500InternalServerError("Failed to load analytics", err)
	}
	return &operation.GetAnalyticsOutput{Body: toAnalyticsDTO(sum)}, nil
}

// TrackClick records a link click from a public page.
func (h *AnalyticsHandler) TrackClick(ctx context.Context, input *operation.TrackClickInput) (*operation.TrackClickOutput, error) {
	if input.Body.LinkID == "" || input.Body.UserID == "" {
		return nil, badRequest("", "Missing data")
	}
	err := h.analyticsService.TrackClick(ctx, input.Body.UserID, input.Body.LinkID, input.Info)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return nil, huma.Error404NotFound("Link not found")
		}
		h.logger.Error().Err(err).Str("link_id", input.Body.LinkID).Msg("Failed to track click")
		return nil, huma.Error500InternalServerError("Failed to track click", err)
	}
	return &operation.TrackClickOutput{Body: dto.SuccessResponse{Success: true}}, nil
}
