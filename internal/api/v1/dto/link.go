package dto

import "time"

type LinkCreateDTO struct {
	Title    string  `json:"title,omitempty" validate:"required,max=100"`
	URL      string  `json:"url,omitempty" validate:"required,url"`
	Order    *int    `json:"order,omitempty" validate:"omitempty,min=0"`
	Type     string  `json:"type,omitempty" validate:"omitempty,oneof=link youtube spotify tiktok"`
	EmbedURL *string `json:"embedUrl,omitempty" validate:"omitempty,url"`
}

// LinkUpdateDTO is a partial update; an explicit null embedUrl clears it.
type LinkUpdateDTO struct {
	Title    *string          `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	URL      *string          `json:"url,omitempty" validate:"omitempty,url"`
	IsActive *bool            `json:"isActive,omitempty"`
	Order    *int             `json:"order,omitempty" validate:"omitempty,min=0"`
	Type     *string          `json:"type,omitempty" validate:"omitempty,oneof=link youtube spotify tiktok"`
	EmbedURL Nullable[string] `json:"embedUrl,omitempty"`
}

type LinkReorderDTO struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid" doc:"Link ids in display order"`
}

type LinkResponseDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	EmbedURL  *string   `json:"embedUrl"`
	IsActive  bool      `json:"isActive"`
	Clicks    int       `json:"clicks"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
