package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/api/metrics"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/guard"
)

// deniedResponse tells an API client where the portal would send the user.
type deniedResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// RequireAuthenticated denies requests without a live session.
func RequireAuthenticated(p guard.Paths) echo.MiddlewareFunc {
	return enforce("authenticated", p, func(s *domain.Session) guard.Decision {
		return guard.Authenticated(s, p)
	})
}

// RequireAdmin denies requests whose session user is not an admin.
func RequireAdmin(p guard.Paths) echo.MiddlewareFunc {
	return enforce("admin_only", p, func(s *domain.Session) guard.Decision {
		return guard.AdminOnly(s, p)
	})
}

// RequireRoles denies requests whose session user's role is outside the
// allowed set.
func RequireRoles(p guard.Paths, roles ...domain.Role) echo.MiddlewareFunc {
	return enforce("role_set", p, func(s *domain.Session) guard.Decision {
		return guard.RoleSet(s, p, roles...)
	})
}

// enforce evaluates the guard fresh on every request; decisions are never
// cached across navigations.
func enforce(name string, p guard.Paths, decide func(*domain.Session) guard.Decision) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := sessionFromContext(c)

			d := decide(session)
			if d.Allow {
				return next(c)
			}

			// Login redirects mean "not logged in" (401); unauthorized
			// redirects mean "logged in with the wrong role" (403). The
			// denied handler never runs.
			if d.Redirect == p.Login {
				metrics.GuardDenialsTotal.WithLabelValues(name, "no_token").Inc()
				return c.JSON(http.StatusUnauthorized, deniedResponse{Error: "unauthenticated", Redirect: d.Redirect})
			}
			metrics.GuardDenialsTotal.WithLabelValues(name, "role_mismatch").Inc()
			return c.JSON(http.StatusForbidden, deniedResponse{Error: "forbidden", Redirect: d.Redirect})
		}
	}
}
