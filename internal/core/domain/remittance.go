package domain

import (
	"errors"
	"time"
)

// RemittanceStatus represents the approval state of a remittance.
type RemittanceStatus string

const (
	RemittancePending  RemittanceStatus = "pending"
	RemittanceApproved RemittanceStatus = "approved"
	RemittanceRejected RemittanceStatus = "rejected"
)

// validDecisions defines the allowed status transitions. Approved and
// rejected are terminal.
var validDecisions = map[RemittanceStatus][]RemittanceStatus{
	RemittancePending: {RemittanceApproved, RemittanceRejected},
}

var (
	ErrInvalidDecision     = errors.New("invalid remittance decision")
	ErrRemittanceNotFound  = errors.New("remittance not found")
	ErrDuplicateReference  = errors.New("remittance reference already used")
	ErrHospitalNotAssigned = errors.New("hospital not assigned to remitter")
)

// CanTransitionTo reports whether a decision moving the remittance from its
// current status to next is valid.
func (s RemittanceStatus) CanTransitionTo(next RemittanceStatus) bool {
	for _, allowed := range validDecisions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Remittance records a single fund payment a remitter submits against an
// assigned hospital. Reference is the client-generated idempotency handle.
type Remittance struct {
	ID              string           `json:"id"`
	HospitalID      string           `json:"hospital_id"`
	RemitterID      string           `json:"remitter_id"`
	Amount          float64          `json:"amount"`
	Description     string           `json:"description"`
	PaymentMethod   string           `json:"payment_method"`
	Reference       string           `json:"ref"`
	TransactionDate time.Time        `json:"transaction_date"`
	Status          RemittanceStatus `json:"status"`
	DecidedBy       string           `json:"decided_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// HospitalSummary aggregates a hospital's remitted total for a month against
// its configured target. Backs the admin and remitter dashboard cards.
type HospitalSummary struct {
	HospitalID    string  `json:"hospital_id"`
	HospitalName  string  `json:"hospital_name"`
	MonthlyTarget float64 `json:"monthly_remittance_target"`
	TotalRemitted float64 `json:"total_remitted"`
	Month         string  `json:"month"`
}
