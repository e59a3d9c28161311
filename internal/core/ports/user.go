package ports

import (
	"context"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// UserRepository defines persistence for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}

// UserService exposes the admin user-management operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
}

// UpdateUserInput carries the editable account fields. Nil pointers leave
// the current value untouched.
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Role        *string
}
