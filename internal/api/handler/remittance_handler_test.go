package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/api/handler"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

type stubRemittanceService struct {
	submitFn    func(ctx context.Context, input ports.SubmitRemittanceInput) (*domain.Remittance, error)
	decideFn    func(ctx context.Context, id, action, decidedBy string) (*domain.Remittance, error)
	summariesFn func(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error)
}

func (s *stubRemittanceService) Submit(ctx context.Context, input ports.SubmitRemittanceInput) (*domain.Remittance, error) {
	return s.submitFn(ctx, input)
}

func (s *stubRemittanceService) ForRemitter(ctx context.Context, remitterID string) ([]*domain.Remittance, error) {
	return nil, nil
}

func (s *stubRemittanceService) All(ctx context.Context, status domain.RemittanceStatus) ([]*domain.Remittance, error) {
	return nil, nil
}

func (s *stubRemittanceService) Decide(ctx context.Context, id, action, decidedBy string) (*domain.Remittance, error) {
	return s.decideFn(ctx, id, action, decidedBy)
}

func (s *stubRemittanceService) Summaries(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error) {
	return s.summariesFn(ctx, month, remitterID)
}

// withSession injects a fixed session the way the Auth middleware would.
func withSession(s *domain.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("session", s)
			return next(c)
		}
	}
}

func remitterSession() *domain.Session {
	return &domain.Session{
		ID:    "sess_1",
		Token: "t",
		User:  &domain.User{ID: "rem_1", Email: "r@example.com", Role: domain.RoleRemitter},
	}
}

func TestRemittanceHandler_Submit(t *testing.T) {
	var got ports.SubmitRemittanceInput
	stub := &stubRemittanceService{
		submitFn: func(ctx context.Context, input ports.SubmitRemittanceInput) (*domain.Remittance, error) {
			got = input
			return &domain.Remittance{ID: "rm_1", Status: domain.RemittancePending}, nil
		},
	}

	e := newTestEcho()
	e.POST("/remittances", handler.NewRemittanceHandler(stub).Submit, withSession(remitterSession()))

	body := `{"hospital_id":"LAG-000123","amount":150000,"payment_method":"bank_transfer","ref":"REF-77","transaction_date":"2026-08-15"}`
	rec := postJSON(e, "/remittances", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.RemitterID != "rem_1" {
		t.Fatalf("remitter id must come from the session, got %q", got.RemitterID)
	}
	if got.HospitalID != "LAG-000123" || got.Reference != "REF-77" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.TransactionDate.Format("2006-01-02") != "2026-08-15" {
		t.Fatalf("unexpected transaction date: %v", got.TransactionDate)
	}
}

func TestRemittanceHandler_Submit_DuplicateReference(t *testing.T) {
	stub := &stubRemittanceService{
		submitFn: func(ctx context.Context, input ports.SubmitRemittanceInput) (*domain.Remittance, error) {
			return nil, domain.ErrDuplicateReference
		},
	}

	e := newTestEcho()
	e.POST("/remittances", handler.NewRemittanceHandler(stub).Submit, withSession(remitterSession()))

	body := `{"hospital_id":"LAG-000123","amount":150000,"payment_method":"cash","ref":"REF-77","transaction_date":"2026-08-15"}`
	rec := postJSON(e, "/remittances", body)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRemittanceHandler_Submit_BadDate(t *testing.T) {
	stub := &stubRemittanceService{
		submitFn: func(ctx context.Context, input ports.SubmitRemittanceInput) (*domain.Remittance, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	e := newTestEcho()
	e.POST("/remittances", handler.NewRemittanceHandler(stub).Submit, withSession(remitterSession()))

	body := `{"hospital_id":"LAG-000123","amount":150000,"payment_method":"cash","ref":"REF-77","transaction_date":"15/08/2026"}`
	rec := postJSON(e, "/remittances", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRemittanceHandler_Decide(t *testing.T) {
	stub := &stubRemittanceService{
		decideFn: func(ctx context.Context, id, action, decidedBy string) (*domain.Remittance, error) {
			if id != "rm_1" || action != "approve" || decidedBy != "adm_1" {
				t.Fatalf("unexpected args: %s %s %s", id, action, decidedBy)
			}
			return &domain.Remittance{ID: id, Status: domain.RemittanceApproved}, nil
		},
	}

	admin := &domain.Session{
		ID:    "sess_a",
		Token: "t",
		User:  &domain.User{ID: "adm_1", Role: domain.RoleAdmin},
	}

	e := newTestEcho()
	e.PATCH("/updateremittance/:id/:action", handler.NewRemittanceHandler(stub).Decide, withSession(admin))

	req := httptest.NewRequest(http.MethodPatch, "/updateremittance/rm_1/approve", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRemittanceHandler_Decide_AlreadyDecided(t *testing.T) {
	stub := &stubRemittanceService{
		decideFn: func(ctx context.Context, id, action, decidedBy string) (*domain.Remittance, error) {
			return nil, domain.ErrInvalidDecision
		},
	}

	admin := &domain.Session{ID: "sess_a", Token: "t", User: &domain.User{ID: "adm_1", Role: domain.RoleAdmin}}

	e := newTestEcho()
	e.PATCH("/updateremittance/:id/:action", handler.NewRemittanceHandler(stub).Decide, withSession(admin))

	req := httptest.NewRequest(http.MethodPatch, "/updateremittance/rm_1/approve", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestRemittanceHandler_Summaries_Envelope(t *testing.T) {
	stub := &stubRemittanceService{
		summariesFn: func(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error) {
			if remitterID != "rem_1" {
				t.Fatalf("expected caller scoping, got %q", remitterID)
			}
			if month.Format("2006-01") != "2026-07" {
				t.Fatalf("unexpected month: %v", month)
			}
			return []*domain.HospitalSummary{{HospitalID: "LAG-000123", TotalRemitted: 42}}, nil
		},
	}

	e := newTestEcho()
	e.GET("/remitter-hospitals-summary", handler.NewRemittanceHandler(stub).RemitterSummaries, withSession(remitterSession()))

	req := httptest.NewRequest(http.MethodGet, "/remitter-hospitals-summary?month=2026-07", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "LAG-000123") {
		t.Fatalf("summary rows missing: %s", rec.Body.String())
	}
}
