package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler implements account and username operations
type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	now         func() time.Time
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validate,
		now:         time.Now,
		logger:      logger,
	}
}

// CheckUsername reports whether a handle can be claimed.
func (h *UserHandler) CheckUsername(ctx context.Context, input *operation.CheckUsernameInput) (*operation.CheckUsernameOutput, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, badRequest("username", "Username required")
	}
	res, err := h.userService.CheckUsername(ctx, input.Username)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to check username")
		return nil, huma.Error500InternalServerError("Failed to check username", err)
	}
	body := dto.UsernameCheckResponseDTO{Available: res.Available}
	if res.Reason == "reserved" {
		body.Reason = res.Reason
	}
	return &operation.CheckUsernameOutput{Body: body}, nil
}

func (h *UserHandler) UpdateUsername(ctx context.Context, input *operation.UpdateUsernameInput) (*operation.UpdateUsernameOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}

	username, err := h.userService.UpdateUsername(ctx, userID, input.Body.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			return nil, badRequest("username", "Username must be 3-30 characters and contain only lowercase letters, numbers, underscores, and hyphens")
		case errors.Is(err, service.ErrUsernameReserved):
			return nil, badRequest("username", "This username is reserved")
		case errors.Is(err, service.ErrUsernameTaken):
			return nil, dto.NewFieldError(http.StatusConflict, "username", "Username is already taken")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update username")
		return nil, huma.Error500InternalServerError("Failed to update username", err)
	}
	return &operation.UpdateUsernameOutput{Body: dto.UsernameResponseDTO{Username: username}}, nil
}

// GetMe retrieves the authenticated user's account
func (h *UserHandler) GetMe(ctx context.Context, input *operation.GetMeInput) (*operation.GetMeOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.userService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		return nil, huma.Error500InternalServerError("Failed to get user", err)
	}
	return &operation.GetMeOutput{
		Body: dto.MeResponseDTO{AccountResponse: toAccount(u), Plan: toPlanDTO(u, h.now())},
	}, nil
}

// DeleteAccount deletes the authenticated user and all associated resources
func (h *UserHandler) DeleteAccount(ctx context.Context, input *operation.DeleteAccountInput) (*operation.DeleteAccountOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.userService.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete user and resources")
		return nil, huma.Error500InternalServerError("Failed to delete user", err)
	}
	return &operation.DeleteAccountOutput{Body: dto.SuccessResponse{Success: true}}, nil
}
