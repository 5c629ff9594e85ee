package model

import "time"

type EmailSubscriber struct {
	ID        string
	UserID    string
	Email     string
	Name      *string
	CreatedAt time.Time
}
