package operation

import (
	"linkhub/internal/api/v1/dto"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
)

type GetProfileInput struct {
	// No input needed - user ID comes from auth context
}

type GetProfileOutput struct {
	Body dto.ProfileResponseDTO `json:"body"`
}

type UpdateProfileInput struct {
	Body dto.ProfileUpdateDTO `json:"body"`
}

type UpdateProfileOutput struct {
	Body dto.ProfileResponseDTO `json:"body"`
}

// ClientInfo captures the visitor metadata recorded with analytics events.
type ClientInfo struct {
	Info service.RequestInfo `json:"-"`
}

func (c *ClientInfo) Resolve(ctx huma.Context) []error {
	c.Info = service.NewRequestInfo(ctx.Header, ctx.RemoteAddr())
	return nil
}

type GetPublicProfileInput struct {
	ClientInfo
	Username string `path:"username" doc:"Public handle"`
}

type GetPublicProfileOutput struct {
	Body dto.PublicProfileResponseDTO `json:"body"`
}
