package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

const (
	defaultAuditPerPage = 20
	maxAuditPerPage     = 100
)

// AuditHandler serves the admin audit-log browser.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type auditPage struct {
	Data        []*domain.AuditEntry `json:"data"`
	CurrentPage int                  `json:"current_page"`
	PerPage     int                  `json:"per_page"`
	Total       int64                `json:"total"`
}

type auditLogsResponse struct {
	Logs auditPage `json:"logs"`
}

// List returns a filtered, paginated slice of the audit log.
//
// @Summary      Browse the audit log
// @Tags         audit
// @Produce      json
// @Param        actor_email  query     string  false  "Filter by actor email"
// @Param        action       query     string  false  "Filter by action"
// @Param        from         query     string  false  "Start date, YYYY-MM-DD"
// @Param        to           query     string  false  "End date, YYYY-MM-DD"
// @Param        page         query     int     false  "Page number"
// @Param        per_page     query     int     false  "Page size"
// @Success      200          {object}  auditLogsResponse
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	filter, err := auditFilterFromQuery(c)
	if err != nil {
		return err
	}

	entries, total, err := h.repo.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, auditLogsResponse{Logs: auditPage{
		Data:        entries,
		CurrentPage: filter.Page,
		PerPage:     filter.PerPage,
		Total:       total,
	}})
}

func auditFilterFromQuery(c echo.Context) (domain.AuditFilter, error) {
	filter := domain.AuditFilter{
		ActorEmail: c.QueryParam("actor_email"),
		Action:     c.QueryParam("action"),
		Page:       1,
		PerPage:    defaultAuditPerPage,
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := c.QueryParam("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "per_page must be a positive integer")
		}
		if perPage > maxAuditPerPage {
			perPage = maxAuditPerPage
		}
		filter.PerPage = perPage
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		filter.From = from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		// Make the end date inclusive.
		filter.To = to.Add(24 * time.Hour)
	}

	return filter, nil
}
