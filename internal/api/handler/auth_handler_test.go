package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/api"
	"github.com/roncloudtech/hospital-remittance/internal/api/handler"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.Session, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error { return nil }

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) error {
	return nil
}

// newTestEcho builds an echo instance with the same validator and error
// handler the server uses, so status codes in tests match production.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.Session, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.Session{
				ID:    "sess_1",
				Token: "token123",
				User:  &domain.User{ID: "u1", Email: email, Role: domain.RoleAdmin},
			}, nil
		},
	}
	e.POST("/login", handler.NewAuthHandler(stub).Login)

	rec := postJSON(e, "/login", `{"email":"alice@example.com","password":"secret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Login_WrongPasswordAndMissingUserLookAlike(t *testing.T) {
	for _, sentinel := range []error{domain.ErrInvalidCredentials, domain.ErrUserNotFound} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (*domain.Session, error) {
				return nil, sentinel
			},
		}
		e := newTestEcho()
		e.POST("/login", handler.NewAuthHandler(stub).Login)

		rec := postJSON(e, "/login", `{"email":"alice@example.com","password":"bad"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", sentinel, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid credentials") {
			t.Fatalf("%v: body should not reveal which check failed: %s", sentinel, rec.Body.String())
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	e.POST("/login", handler.NewAuthHandler(stub).Login)

	for _, body := range []string{"not-json", `{"email":"not-an-email","password":"x"}`, `{}`} {
		rec := postJSON(e, "/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var gotSessionID string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			gotSessionID = sessionID
			return nil
		},
	}

	e := newTestEcho()
	e.POST("/logout", handler.NewAuthHandler(stub).Logout, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("session", &domain.Session{ID: "sess_9", Token: "t", User: &domain.User{ID: "u1"}})
			return next(c)
		}
	})

	rec := postJSON(e, "/logout", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotSessionID != "sess_9" {
		t.Fatalf("expected logout of sess_9, got %q", gotSessionID)
	}
}

func TestAuthHandler_Logout_NoSession(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}

	e := newTestEcho()
	e.POST("/logout", handler.NewAuthHandler(stub).Logout)

	rec := postJSON(e, "/logout", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	e.POST("/register", handler.NewAuthHandler(stub).Register)

	rec := postJSON(e, "/register", `{"firstname":"Bob","lastname":"Ade","email":"bob@example.com","password":"longenough","role":"remitter"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_RejectsUnknownRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	e.POST("/register", handler.NewAuthHandler(stub).Register)

	rec := postJSON(e, "/register", `{"firstname":"Eve","lastname":"Ade","email":"eve@example.com","password":"longenough","role":"superuser"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
