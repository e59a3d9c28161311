package ports

import (
	"context"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// NotificationRepository defines persistence for per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationService delivers and lists notifications.
type NotificationService interface {
	Deliver(ctx context.Context, event domain.NotificationEvent) error
	ForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationDispatcher accepts notification events for asynchronous
// delivery. Enqueue never blocks the submitting request beyond the worker
// channel buffer.
type NotificationDispatcher interface {
	Enqueue(event domain.NotificationEvent)
}
