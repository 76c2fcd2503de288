package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
	"github.com/noah-isme/expert-calendar-api/pkg/response"
)

type exportService interface {
	RenderICS(ctx context.Context, ownerID string, from, to time.Time) (string, error)
	RenderAgendaPDF(ctx context.Context, ownerID string, from, to time.Time) ([]byte, error)
}

// ExportHandler exposes calendar export endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ICS godoc
// @Summary Export a calendar range as an ICS feed
// @Tags Exports
// @Produce plain
// @Param start query string true "Range start"
// @Param end query string true "Range end"
// @Success 200 {string} string "VCALENDAR"
// @Router /appointments/export.ics [get]
func (h *ExportHandler) ICS(c *gin.Context) {
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

	feed, err := h.service.RenderICS(c.Request.Context(), claims.UserID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// AgendaPDF godoc
// @Summary Export a calendar range as a PDF agenda
// @Tags Exports
// @Produce octet-stream
// @Param start query string true "Range start"
// @Param end query string true "Range end"
// @Success 200 {string} string "PDF"
// @Router /appointments/agenda.pdf [get]
func (h *ExportHandler) AgendaPDF(c *gin.Context) {
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

	rendered, err := h.service.RenderAgendaPDF(c.Request.Context(), claims.UserID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="agenda.pdf"`)
	c.Data(http.StatusOK, "application/pdf", rendered)
}
