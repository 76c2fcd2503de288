package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/expert-calendar-api/internal/middleware"
	"github.com/noah-isme/expert-calendar-api/internal/models"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// parseRangeQuery reads the start/end query parameters. Either RFC3339
// instants or plain dates (YYYY-MM-DD) are accepted; the range start is
// inclusive and the end exclusive.
func parseRangeQuery(c *gin.Context) (time.Time, time.Time, error) {
	from, err := parseRangeInstant(c.Query("start"), "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseRangeInstant(c.Query("end"), "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, appErrors.Validation("end", "must be after start")
	}
	return from, to, nil
}

func parseRangeInstant(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, appErrors.Validation(field, "is required")
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, appErrors.Validation(field, "must be RFC3339 or YYYY-MM-DD")
}
