package ports

import (
	"context"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// HospitalRepository defines persistence for hospitals. Find and List skip
// soft-deleted rows unless stated otherwise.
type HospitalRepository interface {
	Create(ctx context.Context, h *domain.Hospital) (*domain.Hospital, error)
	FindByID(ctx context.Context, id string) (*domain.Hospital, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Hospital, error)
	ListByRemitter(ctx context.Context, remitterID string) ([]*domain.Hospital, error)
	Update(ctx context.Context, h *domain.Hospital) (*domain.Hospital, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
}

// HospitalService exposes the hospital CRUD operations.
type HospitalService interface {
	Create(ctx context.Context, input HospitalInput) (*domain.Hospital, error)
	Get(ctx context.Context, id string) (*domain.Hospital, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Hospital, error)
	ForRemitter(ctx context.Context, remitterID string) ([]*domain.Hospital, error)
	Update(ctx context.Context, id string, input HospitalInput) (*domain.Hospital, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// HospitalInput carries the add/edit hospital form fields.
type HospitalInput struct {
	HospitalID       string
	Name             string
	MilitaryDivision string
	Address          string
	PhoneNumber      string
	RemitterID       string
	MonthlyTarget    float64
}
