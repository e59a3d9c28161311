package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session pairs a bearer token with the user it authenticates. The token and
// the user record are written and cleared together; no reader may ever
// observe one without the other.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Authenticated reports whether the session carries a token. A session with
// a token but no readable user record is still authenticated; it just fails
// every role check.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Role returns the session user's role, or RoleUnknown when the user record
// is absent or malformed.
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return RoleUnknown
	}
	return ParseRole(string(s.User.Role))
}
