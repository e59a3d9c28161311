package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// Auth resolves the bearer token into a live session and injects it into
// the echo context. Resolution also counts as activity, sliding the
// session's idle window. A token whose session is gone, whether logged out
// or idle-expired, is rejected even when the JWT itself is still valid.
func Auth(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				// No credential presented. The route's guard decides what
				// an anonymous request gets; pages that need a session
				// answer with the login redirect, not a bare 401.
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			session, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrSessionExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("session", session)
			if session.User != nil {
				c.Set("user_id", session.User.ID)
				c.Set("role", string(session.Role()))
			}

			return next(c)
		}
	}
}

// sessionFromContext returns the session injected by Auth, or nil when the
// request never passed through it.
func sessionFromContext(c echo.Context) *domain.Session {
	s, _ := c.Get("session").(*domain.Session)
	return s
}
