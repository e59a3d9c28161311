package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/guard"
)

var adminPaths = guard.Paths{Login: "/login", Unauthorized: "/unauthorized"}
var userPaths = guard.Paths{Login: "/login", Unauthorized: "/user/unauthorized"}

func run(t *testing.T, mw echo.MiddlewareFunc, session *domain.Session) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session != nil {
		c.Set("session", session)
	}

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp deniedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid denial body: %v", err)
	}
	return resp.Redirect
}

func TestRequireAdmin(t *testing.T) {
	mw := RequireAdmin(adminPaths)

	rec, called := run(t, mw, &domain.Session{Token: "t1", User: &domain.User{Role: domain.RoleAdmin}})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin should pass, got %d", rec.Code)
	}

	rec, called = run(t, mw, &domain.Session{Token: "t1", User: &domain.User{Role: domain.RoleRemitter}})
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("remitter should be denied, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/unauthorized" {
		t.Fatalf("expected /unauthorized redirect, got %q", got)
	}

	rec, called = run(t, mw, nil)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing session should be 401, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/login" {
		t.Fatalf("expected /login redirect, got %q", got)
	}
}

// A session with a token but no readable user record is "logged in but
// unauthorized": 403 to the unauthorized page, never 401 to login.
func TestRequireAdmin_MalformedUser(t *testing.T) {
	mw := RequireAdmin(adminPaths)

	rec, called := run(t, mw, &domain.Session{Token: "t1"})
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/unauthorized" {
		t.Fatalf("expected /unauthorized redirect, got %q", got)
	}
}

func TestRequireRoles_Remitter(t *testing.T) {
	mw := RequireRoles(userPaths, domain.RoleRemitter)

	rec, called := run(t, mw, &domain.Session{Token: "t1", User: &domain.User{Role: domain.RoleRemitter}})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("remitter should pass, got %d", rec.Code)
	}

	rec, _ = run(t, mw, &domain.Session{Token: "t1", User: &domain.User{Role: domain.RoleAdmin}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin should be denied on remitter route, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/user/unauthorized" {
		t.Fatalf("expected /user/unauthorized redirect, got %q", got)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	mw := RequireAuthenticated(adminPaths)

	rec, called := run(t, mw, &domain.Session{Token: "t1"})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("token holder should pass, got %d", rec.Code)
	}

	rec, _ = run(t, mw, &domain.Session{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("empty session should be 401, got %d", rec.Code)
	}
}
