package model

import "time"

const (
	LinkTypeLink    = "link"
	LinkTypeYouTube = "youtube"
	LinkTypeSpotify = "spotify"
	LinkTypeTikTok  = "tiktok"
)

type Link struct {
	ID        string
	UserID    string
	Title     string
	URL       string
	Type      string
	EmbedURL  *string
	IsActive  bool
	Clicks    int
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LinkUpdate carries the optional fields of a link patch.
type LinkUpdate struct {
	Title    *string
	URL      *string
	IsActive *bool
	Order    *int
	Type     *string
	EmbedURL *string

	ClearEmbedURL bool
}
