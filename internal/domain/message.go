package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID           uuid.UUID  `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	// Joined fields
	FromUser *UserSummary `json:"from_user,omitempty"`
	ToUser   *UserSummary `json:"to_user,omitempty"`
}
