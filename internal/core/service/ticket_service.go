package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// TicketService implements support tickets: remitters open them, admins
// resolve and close them.
type TicketService struct {
	repo   ports.TicketRepository
	notify ports.NotificationDispatcher
	log    zerolog.Logger
}

func NewTicketService(repo ports.TicketRepository, notify ports.NotificationDispatcher, log zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, notify: notify, log: log}
}

func (s *TicketService) Open(ctx context.Context, userID, subject, message string) (*domain.Ticket, error) {
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		UserID:    userID,
		Subject:   subject,
		Message:   message,
		Status:    domain.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("ticket_id", created.ID).Str("user_id", userID).Msg("ticket opened")
	return created, nil
}

func (s *TicketService) ForUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *TicketService) All(ctx context.Context) ([]*domain.Ticket, error) {
	return s.repo.List(ctx)
}

func (s *TicketService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTicketTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.notify.Enqueue(domain.NotificationEvent{
		UserID: updated.UserID,
		Title:  "Ticket " + string(status),
		Body:   "Your ticket \"" + updated.Subject + "\" is now " + string(status) + ".",
	})
	return updated, nil
}
