package domain

import (
	"errors"
	"time"
)

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketResolved TicketStatus = "resolved"
	TicketClosed   TicketStatus = "closed"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketOpen:     {TicketResolved, TicketClosed},
	TicketResolved: {TicketClosed},
}

var (
	ErrTicketNotFound          = errors.New("ticket not found")
	ErrInvalidTicketTransition = errors.New("invalid ticket status transition")
)

// CanTransitionTo reports whether a ticket may move from its current status
// to next.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range ticketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Ticket is a support request a remitter opens against the portal team.
type Ticket struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Subject   string       `json:"subject"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
