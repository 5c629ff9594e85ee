package dto

import "time"

type SubscribeRequestDTO struct {
	UserID string  `json:"userId,omitempty" validate:"required"`
	Email  string  `json:"email,omitempty" validate:"required,email"`
	Name   *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type SubscriberDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubscribeResponseDTO struct {
	Success    bool          `json:"success"`
	Subscriber SubscriberDTO `json:"subscriber"`
}
