package ports

import (
	"context"
	"time"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// RemittanceRepository defines persistence for fund remittances.
type RemittanceRepository interface {
	Create(ctx context.Context, r *domain.Remittance) (*domain.Remittance, error)
	FindByID(ctx context.Context, id string) (*domain.Remittance, error)
	ListByRemitter(ctx context.Context, remitterID string) ([]*domain.Remittance, error)
	List(ctx context.Context, status domain.RemittanceStatus) ([]*domain.Remittance, error)
	UpdateStatus(ctx context.Context, id string, status domain.RemittanceStatus, decidedBy string) (*domain.Remittance, error)
	SummarizeByHospital(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error)
}

// RemittanceService exposes remittance submission and approval.
type RemittanceService interface {
	Submit(ctx context.Context, input SubmitRemittanceInput) (*domain.Remittance, error)
	ForRemitter(ctx context.Context, remitterID string) ([]*domain.Remittance, error)
	All(ctx context.Context, status domain.RemittanceStatus) ([]*domain.Remittance, error)
	Decide(ctx context.Context, id, action, decidedBy string) (*domain.Remittance, error)
	Summaries(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error)
}

// SubmitRemittanceInput carries the remit-fund form fields.
type SubmitRemittanceInput struct {
	HospitalID      string
	RemitterID      string
	Amount          float64
	Description     string
	PaymentMethod   string
	Reference       string
	TransactionDate time.Time
}

// ReferenceChecker provides idempotency on the client payment reference so a
// retried submission never books the same remittance twice.
type ReferenceChecker interface {
	IsUsed(ctx context.Context, ref string) (bool, error)
	Mark(ctx context.Context, ref string) error
}
