package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// HospitalHandler handles HTTP requests for hospital management.
type HospitalHandler struct {
	service ports.HospitalService
}

func NewHospitalHandler(service ports.HospitalService) *HospitalHandler {
	return &HospitalHandler{service: service}
}

type hospitalRequest struct {
	HospitalID       string  `json:"hospital_id"        validate:"required"`
	Name             string  `json:"hospital_name"      validate:"required"`
	MilitaryDivision string  `json:"military_division"  validate:"required"`
	Address          string  `json:"address"`
	PhoneNumber      string  `json:"phone_number"`
	RemitterID       string  `json:"hospital_remitter"  validate:"required"`
	MonthlyTarget    float64 `json:"monthly_remittance_target" validate:"required,gt=0"`
}

func (r hospitalRequest) toInput() ports.HospitalInput {
	return ports.HospitalInput{
		HospitalID:       r.HospitalID,
		Name:             r.Name,
		MilitaryDivision: r.MilitaryDivision,
		Address:          r.Address,
		PhoneNumber:      r.PhoneNumber,
		RemitterID:       r.RemitterID,
		MonthlyTarget:    r.MonthlyTarget,
	}
}

// Create registers a new hospital.
//
// @Summary      Add a hospital
// @Tags         hospitals
// @Accept       json
// @Produce      json
// @Param        body  body      hospitalRequest  true  "Hospital details"
// @Success      201   {object}  domain.Hospital
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /addhospital [post]
func (h *HospitalHandler) Create(c echo.Context) error {
	var req hospitalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hospital, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, hospital)
}

// List returns all hospitals. Pass ?deleted=true to include soft-deleted
// rows.
//
// @Summary      List hospitals
// @Tags         hospitals
// @Produce      json
// @Param        deleted  query    bool  false  "Include soft-deleted hospitals"
// @Success      200      {array}  domain.Hospital
// @Router       /hospitals [get]
func (h *HospitalHandler) List(c echo.Context) error {
	includeDeleted := c.QueryParam("deleted") == "true"

	hospitals, err := h.service.List(c.Request().Context(), includeDeleted)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hospitals)
}

// Get returns a single hospital.
//
// @Summary      Get a hospital
// @Tags         hospitals
// @Produce      json
// @Param        id   path      string  true  "Hospital ID"
// @Success      200  {object}  domain.Hospital
// @Failure      404  {object}  map[string]string
// @Router       /onehospital/{id} [get]
func (h *HospitalHandler) Get(c echo.Context) error {
	hospital, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hospital)
}

// Update edits a hospital's details.
//
// @Summary      Update a hospital
// @Tags         hospitals
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Hospital ID"
// @Param        body  body      hospitalRequest  true  "New details"
// @Success      200   {object}  domain.Hospital
// @Failure      404   {object}  map[string]string
// @Router       /hospital/update/{id} [put]
func (h *HospitalHandler) Update(c echo.Context) error {
	var req hospitalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hospital, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, hospital)
}

// Delete soft-deletes a hospital. Its remittance history is kept.
//
// @Summary      Delete a hospital
// @Tags         hospitals
// @Produce      json
// @Param        id   path      string  true  "Hospital ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /hospital/delete/{id} [delete]
func (h *HospitalHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "hospital deleted"})
}

// Restore brings back a soft-deleted hospital.
//
// @Summary      Restore a hospital
// @Tags         hospitals
// @Produce      json
// @Param        id   path      string  true  "Hospital ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /hospital/restore/{id} [patch]
func (h *HospitalHandler) Restore(c echo.Context) error {
	if err := h.service.Restore(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "hospital restored"})
}

// MyHospitals returns the hospitals assigned to the calling remitter.
//
// @Summary      List my hospitals
// @Tags         hospitals
// @Produce      json
// @Success      200  {array}  domain.Hospital
// @Router       /my-hospitals [get]
func (h *HospitalHandler) MyHospitals(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	hospitals, err := h.service.ForRemitter(c.Request().Context(), session.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hospitals)
}
