package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// performs a fast-fail check before any service call: a session without a
// user record is structurally broken and must never reach a handler, even
// if the guard chain was misconfigured.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s, _ := c.Get("session").(*domain.Session)
	if s == nil || s.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return s, nil
}
