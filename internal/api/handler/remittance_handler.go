package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// RemittanceHandler handles HTTP requests for fund remittances.
type RemittanceHandler struct {
	service ports.RemittanceService
}

func NewRemittanceHandler(service ports.RemittanceService) *RemittanceHandler {
	return &RemittanceHandler{service: service}
}

// Submit records a new pending remittance for one of the caller's
// hospitals.
//
// @Summary      Submit a remittance
// @Tags         remittances
// @Accept       json
// @Produce      json
// @Param        body  body      submitRemittanceRequest  true  "Remittance details"
// @Success      201   {object}  domain.Remittance
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /remittances [post]
func (h *RemittanceHandler) Submit(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req submitRemittanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	txDate, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_date must be YYYY-MM-DD")
	}

	remittance, err := h.service.Submit(c.Request().Context(), ports.SubmitRemittanceInput{
		HospitalID:      req.HospitalID,
		RemitterID:      session.User.ID,
		Amount:          req.Amount,
		Description:     req.Description,
		PaymentMethod:   req.PaymentMethod,
		Reference:       req.Reference,
		TransactionDate: txDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, remittance)
}

// Mine returns the caller's own remittances, newest first.
//
// @Summary      List my remittances
// @Tags         remittances
// @Produce      json
// @Success      200  {array}  domain.Remittance
// @Router       /getremittances [get]
func (h *RemittanceHandler) Mine(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	remittances, err := h.service.ForRemitter(c.Request().Context(), session.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, remittances)
}

// All returns every remittance, optionally filtered by ?status=.
//
// @Summary      List all remittances
// @Tags         remittances
// @Produce      json
// @Param        status  query    string  false  "Filter by status"  Enums(pending, approved, rejected)
// @Success      200     {array}  domain.Remittance
// @Router       /allremittances [get]
func (h *RemittanceHandler) All(c echo.Context) error {
	status := domain.RemittanceStatus(c.QueryParam("status"))

	remittances, err := h.service.All(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, remittances)
}

// Decide approves or rejects a pending remittance.
//
// @Summary      Approve or reject a remittance
// @Tags         remittances
// @Produce      json
// @Param        id      path      string  true  "Remittance ID"
// @Param        action  path      string  true  "approve or reject"
// @Success      200     {object}  domain.Remittance
// @Failure      404     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /updateremittance/{id}/{action} [patch]
func (h *RemittanceHandler) Decide(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	remittance, err := h.service.Decide(c.Request().Context(), c.Param("id"), c.Param("action"), session.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, remittance)
}

// RemitterSummaries returns per-hospital monthly totals for the caller's
// hospitals. The month defaults to the current one; pass ?month=YYYY-MM
// for another.
//
// @Summary      My hospitals' monthly summary
// @Tags         remittances
// @Produce      json
// @Param        month  query     string  false  "Month, YYYY-MM"
// @Success      200    {object}  summariesResponse
// @Router       /remitter-hospitals-summary [get]
func (h *RemittanceHandler) RemitterSummaries(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	month, err := monthParam(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.Summaries(c.Request().Context(), month, session.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summariesResponse{Success: true, Data: summaries})
}

// AdminSummaries returns per-hospital monthly totals across every
// hospital.
//
// @Summary      All hospitals' monthly summary
// @Tags         remittances
// @Produce      json
// @Param        month  query     string  false  "Month, YYYY-MM"
// @Success      200    {object}  summariesResponse
// @Router       /admin-hospitals-summary [get]
func (h *RemittanceHandler) AdminSummaries(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.Summaries(c.Request().Context(), month, "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summariesResponse{Success: true, Data: summaries})
}

func monthParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("month")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "month must be YYYY-MM")
	}
	return month, nil
}
