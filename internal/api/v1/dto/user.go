package dto

import "time"

type UsernameCheckResponseDTO struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type UsernameUpdateDTO struct {
	Username string `json:"username,omitempty" validate:"required"`
}

type UsernameResponseDTO struct {
	Username string `json:"username"`
}

type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

type MeResponseDTO struct {
	AccountResponse
	Plan PlanDTO `json:"plan"`
}

type UploadResponseDTO struct {
	URL string `json:"url"`
}
