package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/expert-calendar-api/internal/dto"
	"github.com/noah-isme/expert-calendar-api/internal/models"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
	"github.com/noah-isme/expert-calendar-api/pkg/response"
)

type appointmentService interface {
	List(ctx context.Context, ownerID string, from, to time.Time) ([]models.Occurrence, error)
	Create(ctx context.Context, ownerID string, req dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
}

type mutationService interface {
	Update(ctx context.Context, ownerID, occurrenceID string, req dto.UpdateAppointmentRequest, scope models.MutationScope) (*models.Occurrence, error)
	Remove(ctx context.Context, ownerID, occurrenceID string, scope models.MutationScope) error
}

// AppointmentHandler exposes the /appointments endpoints.
type AppointmentHandler struct {
	appointments appointmentService
	mutations    mutationService
}

// NewAppointmentHandler constructs the handler.
func NewAppointmentHandler(appointments appointmentService, mutations mutationService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, mutations: mutations}
}

// List godoc
// @Summary List appointments in a range
// @Tags Appointments
// @Produce json
// @Param start query string true "Range start (inclusive, RFC3339 or YYYY-MM-DD)"
// @Param end query string true "Range end (exclusive, RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	from, to, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	occurrences, err := h.appointments.List(c.Request.Context(), claims.UserID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences)
}

// Create godoc
// @Summary Create an appointment, optionally expanding a recurrence rule
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAppointmentRequest true "Appointment"
// @Success 201 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	created, err := h.appointments.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Patch an appointment under a scope
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Occurrence ID"
// @Param scope query string false "single|series|future (default single)"
// @Param payload body dto.UpdateAppointmentRequest true "Patch"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [patch]
func (h *AppointmentHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	scope := models.ParseScope(c.Query("scope"))
	updated, err := h.mutations.Update(c.Request.Context(), claims.UserID, c.Param("id"), req, scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete an appointment under a scope
// @Tags Appointments
// @Param id path string true "Occurrence ID"
// @Param scope query string false "single|series|future (default single)"
// @Success 204
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	scope := models.ParseScope(c.Query("scope"))
	if err := h.mutations.Remove(c.Request.Context(), claims.UserID, c.Param("id"), scope); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
