package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/model"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type ProfileHandler struct {
	profileService   service.ProfileService
	analyticsService service.AnalyticsService
	validate         *validator.Validate
	now              func() time.Time
	logger           zerolog.Logger
}

func NewProfileHandler(profileService service.ProfileService, analyticsService service.AnalyticsService, validate *validator.Validate, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService:   profileService,
		analyticsService: analyticsService,
		validate:         validate,
		now:              time.Now,
		logger:           logger,
	}
}

func (h *ProfileHandler) GetProfile(ctx context.Context, input *operation.GetProfileInput) (*operation.GetProfileOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, p, err := h.profileService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, huma.Error404NotFound("Profile not found")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		return nil, huma.Error500InternalServerError("Failed to get profile", err)
	}
	return &operation.GetProfileOutput{Body: toProfileResponse(u, p, h.now())}, nil
}

func (h *ProfileHandler) UpdateProfile(ctx context.Context, input *operation.UpdateProfileInput) (*operation.UpdateProfileOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}

	b := input.Body
	in := service.ProfileInput{
		Title: b.Title,
		Bio:   b.Bio,
		ProfileUpdate: model.ProfileUpdate{
			BackgroundColor:     b.BackgroundColor,
			ButtonStyle:         b.ButtonStyle,
			ButtonColor:         b.ButtonColor,
			TextColor:           b.TextColor,
			FontFamily:          b.FontFamily,
			Theme:               b.Theme,
			ParticleEffect:      b.ParticleEffect,
			EmailCaptureEnabled: b.EmailCaptureEnabled,
			EmailCaptureTitle:   b.EmailCaptureTitle,
			TipJarEnabled:       b.TipJarEnabled,
			UpiID:               b.UpiID,
			TipJarTitle:         b.TipJarTitle,
			TipJarDescription:   b.TipJarDescription,
		},
	}
	if b.SocialLinks != nil {
		links := model.SocialLinks(*b.SocialLinks)
		in.SocialLinks = &links
	}

	u, p, err := h.profileService.Update(ctx, userID, in)
	if err != nil {
		var proErr *service.ProRequiredError
		switch {
		case errors.As(err, &proErr):
			return nil, dto.NewFieldError(http.StatusForbidden, proErr.Feature, "Upgrade to Pro to use this feature")
		case errors.Is(err, service.ErrUpiIDRequired):
			return nil, badRequest("upiId", "UPI ID is required to enable the tip jar")
		case errors.Is(err, service.ErrUserNotFound):
			return nil, huma.Error404NotFound("Profile not found")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		return nil, huma.Error500InternalServerError("Failed to update profile", err)
	}
	return &operation.UpdateProfileOutput{Body: toProfileResponse(u, p, h.now())}, nil
}

// GetPublicProfile serves the public page data and records a page view.
func (h *ProfileHandler) GetPublicProfile(ctx context.Context, input *operation.GetPublicProfileInput) (*operation.GetPublicProfileOutput, error) {
	page, err := h.profileService.GetPublic(ctx, input.Username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		h.logger.Error().Err(err).Str("username", input.Username).Msg("Failed to load public profile")
		return nil, huma.Error500InternalServerError("Failed to load profile", err)
	}

	// Tracking never blocks the page.
	if err := h.analyticsService.TrackPageView(ctx, page.User, input.Info); err != nil {
		h.logger.Warn().Err(err).Str("user_id", page.User.ID).Msg("Failed to record page view")
	}
	return &operation.GetPublicProfileOutput{Body: toPublicProfile(page)}, nil
}
