package dto

import "github.com/noah-isme/expert-calendar-api/internal/models"

// RecurrenceInput is the recurrence block of a create request. Instants
// arrive as RFC3339 strings so unparseable values surface as field-level
// validation errors instead of bind failures.
type RecurrenceInput struct {
	Enabled  bool    `json:"enabled"`
	Freq     string  `json:"freq"`
	Interval int     `json:"interval"`
	Mode     string  `json:"mode"`
	Count    *int    `json:"count,omitempty"`
	Until    *string `json:"until,omitempty"`
	Weekdays []int   `json:"weekdays,omitempty"`
}

// CreateAppointmentRequest is the payload for POST /appointments.
type CreateAppointmentRequest struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Location    *string          `json:"location,omitempty"`
	StartAt     string           `json:"startAt"`
	EndAt       *string          `json:"endAt,omitempty"`
	AllDay      bool             `json:"allDay"`
	Color       *string          `json:"color,omitempty"`
	Recurrence  *RecurrenceInput `json:"recurrence,omitempty"`
}

// CreateAppointmentResponse carries either the single created occurrence or
// the created series with its full occurrence list.
type CreateAppointmentResponse struct {
	Occurrence  *models.Occurrence  `json:"occurrence,omitempty"`
	SeriesID    *string             `json:"seriesId,omitempty"`
	Occurrences []models.Occurrence `json:"occurrences,omitempty"`
}

// UpdateAppointmentRequest is a partial patch: absent fields leave the
// current value untouched.
type UpdateAppointmentRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartAt     *string `json:"startAt,omitempty"`
	EndAt       *string `json:"endAt,omitempty"`
	AllDay      *bool   `json:"allDay,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (r UpdateAppointmentRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Location == nil &&
		r.StartAt == nil && r.EndAt == nil && r.AllDay == nil && r.Color == nil
}
