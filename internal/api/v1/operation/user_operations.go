package operation

import "linkhub/internal/api/v1/dto"

type CheckUsernameInput struct {
	Username string `query:"username" required:"false" doc:"Handle to check"`
}

type CheckUsernameOutput struct {
	Body dto.UsernameCheckResponseDTO `json:"body"`
}

type UpdateUsernameInput struct {
	Body dto.UsernameUpdateDTO `json:"body"`
}

type UpdateUsernameOutput struct {
	Body dto.UsernameResponseDTO `json:"body"`
}

type GetMeInput struct {
	// No input needed - user ID comes from auth context
}

type GetMeOutput struct {
	Body dto.MeResponseDTO `json:"body"`
}

type DeleteAccountInput struct {
	// No input needed - user ID comes from auth context
}

type DeleteAccountOutput struct {
	Body dto.SuccessResponse `json:"body"`
}
