package models

import "time"

// Frequency enumerates supported recurrence frequencies.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// ParseFrequency maps a raw frequency string onto the enum.
func ParseFrequency(raw string) (Frequency, bool) {
	switch Frequency(raw) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(raw), true
	default:
		return "", false
	}
}

// EndMode determines how a recurrence rule terminates.
type EndMode string

const (
	EndModeCount EndMode = "COUNT"
	EndModeUntil EndMode = "UNTIL"
)

// MutationScope selects how broadly an update or delete applies to a series.
type MutationScope string

const (
	ScopeSingle MutationScope = "single"
	ScopeSeries MutationScope = "series"
	ScopeFuture MutationScope = "future"
)

// ParseScope maps a raw scope string onto the closed enum. Unknown or empty
// values fall back to single-occurrence scope.
func ParseScope(raw string) MutationScope {
	switch MutationScope(raw) {
	case ScopeSeries:
		return ScopeSeries
	case ScopeFuture:
		return ScopeFuture
	default:
		return ScopeSingle
	}
}

// Occurrence is one concrete, dated appointment row. Standalone appointments
// have a nil SeriesID; series members carry the series reference plus their
// 0-based position within it.
type Occurrence struct {
	ID              string     `db:"id" json:"id"`
	OwnerID         string     `db:"owner_id" json:"ownerId"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description,omitempty"`
	Location        *string    `db:"location" json:"location,omitempty"`
	Color           *string    `db:"color" json:"color,omitempty"`
	StartAt         time.Time  `db:"start_at" json:"startAt"`
	EndAt           *time.Time `db:"end_at" json:"endAt,omitempty"`
	AllDay          bool       `db:"all_day" json:"allDay"`
	SeriesID        *string    `db:"series_id" json:"seriesId,omitempty"`
	OccurrenceIndex *int       `db:"occurrence_index" json:"occurrenceIndex,omitempty"`
	IsException     bool       `db:"is_exception" json:"isException"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// Series is the persisted recurrence template a batch of occurrences was
// generated from. Template timing is the anchor occurrence's timing.
type Series struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"owner_id" json:"ownerId"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	Color       *string    `db:"color" json:"color,omitempty"`
	AllDay      bool       `db:"all_day" json:"allDay"`
	StartAt     time.Time  `db:"start_at" json:"startAt"`
	EndAt       *time.Time `db:"end_at" json:"endAt,omitempty"`
	Freq        Frequency  `db:"freq" json:"freq"`
	Interval    int        `db:"interval" json:"interval"`
	EndMode     EndMode    `db:"end_mode" json:"endMode"`
	Count       *int       `db:"count" json:"count,omitempty"`
	Until       *time.Time `db:"until" json:"until,omitempty"`
	Weekdays    []int      `db:"-" json:"weekdays,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
