package operation

import (
	"net/http"

	"linkhub/internal/api/v1/dto"
)

type RegisterInput struct {
	Body dto.RegisterRequestDTO `json:"body"`
}

type RegisterOutput struct {
	Body dto.RegisterResponseDTO `json:"body"`
}

type LoginInput struct {
	Body dto.LoginRequestDTO `json:"body"`
}

type LoginOutput struct {
	SetCookie http.Cookie          `header:"Set-Cookie"`
	Body      dto.LoginResponseDTO `json:"body"`
}

type LogoutInput struct {
	// No input needed
}

type LogoutOutput struct {
	SetCookie http.Cookie         `header:"Set-Cookie"`
	Body      dto.SuccessResponse `json:"body"`
}
