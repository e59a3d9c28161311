// Package guard contains the route-authorization decisions as pure functions
// of the current session. Handlers and middleware never branch on roles
// directly; they evaluate a guard and honour its decision.
package guard

import "github.com/roncloudtech/hospital-remittance/internal/core/domain"

// Paths holds the redirect targets a guard falls back to when it denies.
type Paths struct {
	Login        string
	Unauthorized string
}

// Decision is the outcome of evaluating a guard: either rendering may
// proceed, or the caller must redirect to Redirect.
type Decision struct {
	Allow    bool
	Redirect string
}

var allow = Decision{Allow: true}

func redirect(path string) Decision {
	return Decision{Redirect: path}
}

// Authenticated allows any session that carries a token.
func Authenticated(s *domain.Session, p Paths) Decision {
	if !s.Authenticated() {
		return redirect(p.Login)
	}
	return allow
}

// AdminOnly allows sessions whose user is an admin. A token with a missing
// or malformed user record is "logged in but unauthorized", never "not
// logged in": it redirects to the unauthorized page, not the login page.
func AdminOnly(s *domain.Session, p Paths) Decision {
	return RoleSet(s, p, domain.RoleAdmin)
}

// RoleSet allows sessions whose user's role is in the allowed set. Unknown
// roles never match.
func RoleSet(s *domain.Session, p Paths, allowed ...domain.Role) Decision {
	if !s.Authenticated() {
		return redirect(p.Login)
	}
	role := s.Role()
	for _, r := range allowed {
		if role == r && role.Valid() {
			return allow
		}
	}
	return redirect(p.Unauthorized)
}
