package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	LevelError NotificationLevel = "error"
)

// Notification is a user-facing message emitted by the cart.
type Notification struct {
	ID        uuid.UUID
	Level     NotificationLevel
	Message   string
	CreatedAt time.Time
}

func NewErrorNotification(message string) Notification {
	return Notification{
		ID:        uuid.New(),
		Level:     LevelError,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
