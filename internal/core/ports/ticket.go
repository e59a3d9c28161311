package ports

import (
	"context"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// TicketRepository defines persistence for support tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}

// TicketService exposes ticket operations for remitters and admins.
type TicketService interface {
	Open(ctx context.Context, userID, subject, message string) (*domain.Ticket, error)
	ForUser(ctx context.Context, userID string) ([]*domain.Ticket, error)
	All(ctx context.Context) ([]*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}
