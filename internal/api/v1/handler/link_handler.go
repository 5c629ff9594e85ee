package handler

import (
	"context"
	"errors"
	"net/http"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/model"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type LinkHandler struct {
	linkService service.LinkService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewLinkHandler(linkService service.LinkService, validate *validator.Validate, logger zerolog.Logger) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
		validate:    validate,
		logger:      logger,
	}
}

func (h *LinkHandler) linkError(err error, userID, msg string) error {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		return huma.Error404NotFound("Link not found")
	case errors.Is(err, service.ErrLinkLimitReached):
		return dto.NewError(http.StatusForbidden, "Link limit reached. Upgrade to Pro for unlimited links.")
	case errors.Is(err, service.ErrUserNotFound):
		return huma.Error404NotFound("User not found")
	}
	h.logger.Error().Err(err).Str("user_id", userID).Msg(msg)
	return huma.Error500InternalServerError(msg, err)
}

// ListLinks returns every link of the caller, inactive ones included.
func (h *LinkHandler) ListLinks(ctx context.Context, input *operation.ListLinksInput) (*operation.ListLinksOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	links, err := h.linkService.List(ctx, userID)
	if err != nil {
		return nil, h.linkError(err, userID, "Failed to list links")
	}
	return &operation.ListLinksOutput{Body: toLinkDTOs(links)}, nil
}

func (h *LinkHandler) CreateLink(ctx context.Context, input *operation.CreateLinkInput) (*operation.CreateLinkOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}

	link, err := h.linkService.Create(ctx, userID, service.CreateLinkInput{
		Title:    input.Body.Title,
		URL:      input.Body.URL,
		Type:     input.Body.Type,
		EmbedURL: input.Body.EmbedURL,
		Order:    input.Body.Order,
	})
	if err != nil {
		return nil, h.linkError(err, userID, "Failed to create link")
	}
	return &operation.CreateLinkOutput{Body: toLinkDTO(*link)}, nil
}

func (h *LinkHandler) UpdateLink(ctx context.Context, input *operation.UpdateLinkInput) (*operation.UpdateLinkOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}

	b := input.Body
	upd := model.LinkUpdate{
		Title:         b.Title,
		URL:           b.URL,
		IsActive:      b.IsActive,
		Order:         b.Order,
		Type:          b.Type,
		ClearEmbedURL: b.EmbedURL.Cleared(),
	}
	if b.EmbedURL.Set() {
		if err := h.validate.Var(b.EmbedURL.Value, "url"); err != nil {
			return nil, badRequest("embedUrl", "Invalid URL")
		}
		upd.EmbedURL = &b.EmbedURL.Value
	}
	link, err := h.linkService.Update(ctx, userID, input.LinkID, upd)
	if err != nil {
		return nil, h.linkError(err, userID, "Failed to update link")
	}
	return &operation.UpdateLinkOutput{Body: toLinkDTO(*link)}, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, input *operation.DeleteLinkInput) (*operation.DeleteLinkOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.linkService.Delete(ctx, userID, input.LinkID); err != nil {
		return nil, h.linkError(err, userID, "Failed to delete link")
	}
	return &operation.DeleteLinkOutput{Body: dto.SuccessResponse{Success: true}}, nil
}

// ReorderLinks rewrites the display order to the given id sequence.
func (h *LinkHandler) ReorderLinks(ctx context.Context, input *operation.ReorderLinksInput) (*operation.ReorderLinksOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}
	links, err := h.linkService.Reorder(ctx, userID, input.Body.IDs)
	if err != nil {
		return nil, h.linkError(err, userID, "Failed to reorder links")
	}
	return &operation.ReorderLinksOutput{Body: toLinkDTOs(links)}, nil
}
