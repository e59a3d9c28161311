package ports

import (
	"context"
	"time"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// AuthService is the account and session lifecycle: registration, login,
// logout and password resets.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// SessionResolver turns a presented bearer token into a live session. Every
// successful resolution counts as user activity and slides the idle window.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// RegisterInput carries the fields of the admin-invoked registration form.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
}

// SessionStore persists token/user pairs. Implementations must write and
// clear the pair atomically: a reader never observes a token without its
// user record or vice versa. Delete of an absent session is a no-op.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*domain.Session, error)
}

// ResetTokenStore keeps short-lived password-reset tokens.
type ResetTokenStore interface {
	Issue(ctx context.Context, token, userID string, ttl time.Duration) error
	Redeem(ctx context.Context, token string) (string, error)
}
