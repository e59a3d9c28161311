package domain

import (
	"errors"
	"time"
)

// Role is the closed set of roles the portal understands. Any value outside
// the set parses to RoleUnknown, which never matches an allowed-role check.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleRemitter Role = "remitter"
	RoleUnknown  Role = ""
)

// ParseRole maps a stored role string onto the closed Role set.
func ParseRole(s string) Role {
	switch s {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleRemitter):
		return RoleRemitter
	default:
		return RoleUnknown
	}
}

// Valid reports whether the role is one of the known portal roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRemitter
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// User models an account in the portal: either an admin managing hospitals
// and user accounts, or a remitter submitting fund remittances.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
