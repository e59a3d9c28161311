package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is a per-user message shown on the portal's notification page.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationEvent is the unit of work handed to the notification
// dispatcher. UserID doubles as the sharding key so a single user's
// notifications are delivered in order.
type NotificationEvent struct {
	UserID string
	Title  string
	Body   string
}
