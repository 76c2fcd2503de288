package export

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// ICSEvent is one calendar entry to serialise into a VCALENDAR feed.
type ICSEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       *time.Time
	AllDay      bool
}

// ICSExporter renders events into an iCalendar document.
type ICSExporter struct {
	calendarName string
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter(calendarName string) *ICSExporter {
	return &ICSExporter{calendarName: calendarName}
}

// Render serialises the events into VCALENDAR text.
func (e *ICSExporter) Render(events []ICSEvent) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	if e.calendarName != "" {
		cal.SetXWRCalName(e.calendarName)
	}

	now := time.Now().UTC()
	for _, event := range events {
		ve := cal.AddEvent(event.UID)
		ve.SetDtStampTime(now)
		ve.SetSummary(event.Summary)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		if event.Location != "" {
			ve.SetLocation(event.Location)
		}
		if event.AllDay {
			ve.SetAllDayStartAt(event.StartAt)
			ve.SetAllDayEndAt(event.StartAt.AddDate(0, 0, 1))
			continue
		}
		ve.SetStartAt(event.StartAt)
		if event.EndAt != nil {
			ve.SetEndAt(*event.EndAt)
		}
	}

	return cal.Serialize()
}
