package operation

import "linkhub/internal/api/v1/dto"

type ListLinksInput struct {
	// No input needed - user ID comes from auth context
}

type ListLinksOutput struct {
	Body []dto.LinkResponseDTO `json:"body"`
}

type CreateLinkInput struct {
	Body dto.LinkCreateDTO `json:"body"`
}

type CreateLinkOutput struct {
	Body dto.LinkResponseDTO `json:"body"`
}

type UpdateLinkInput struct {
	LinkID string            `path:"id" doc:"Link ID"`
	Body   dto.LinkUpdateDTO `json:"body"`
}

type UpdateLinkOutput struct {
	Body dto.LinkResponseDTO `json:"body"`
}

type DeleteLinkInput struct {
	LinkID string `path:"id" doc:"Link ID"`
}

type DeleteLinkOutput struct {
	Body dto.SuccessResponse `json:"body"`
}

type ReorderLinksInput struct {
	Body dto.LinkReorderDTO `json:"body"`
}

type ReorderLinksOutput struct {
	Body []dto.LinkResponseDTO `json:"body"`
}
