package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/api/metrics"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// NotificationService persists and lists per-user notifications. Deliver is
// called from the dispatcher workers, never from request handlers.
type NotificationService struct {
	repo ports.NotificationRepository
	log  zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

func (s *NotificationService) Deliver(ctx context.Context, event domain.NotificationEvent) error {
	n := &domain.Notification{
		UserID:    event.UserID,
		Title:     event.Title,
		Body:      event.Body,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsDeliveredTotal.Inc()
	return nil
}

func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
