package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// TicketHandler handles HTTP requests for support tickets.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

type openTicketRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type updateTicketRequest struct {
	Status string `json:"status" validate:"required,oneof=open resolved closed"`
}

// Open files a new support ticket for the calling user.
//
// @Summary      Open a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        body  body      openTicketRequest  true  "Ticket details"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  map[string]string
// @Router       /tickets [post]
func (h *TicketHandler) Open(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req openTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.service.Open(c.Request().Context(), session.User.ID, req.Subject, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ticket)
}

// Mine returns the caller's own tickets.
//
// @Summary      List my tickets
// @Tags         tickets
// @Produce      json
// @Success      200  {array}  domain.Ticket
// @Router       /user/tickets [get]
func (h *TicketHandler) Mine(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.ForUser(c.Request().Context(), session.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

// All returns every ticket.
//
// @Summary      List all tickets
// @Tags         tickets
// @Produce      json
// @Success      200  {array}  domain.Ticket
// @Router       /admin/tickets [get]
func (h *TicketHandler) All(c echo.Context) error {
	tickets, err := h.service.All(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

// UpdateStatus moves a ticket through its lifecycle.
//
// @Summary      Update a ticket's status
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Ticket ID"
// @Param        body  body      updateTicketRequest  true  "New status"
// @Success      200   {object}  domain.Ticket
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/tickets/{id} [patch]
func (h *TicketHandler) UpdateStatus(c echo.Context) error {
	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ticket)
}
