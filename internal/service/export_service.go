package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/expert-calendar-api/pkg/export"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

// ExportService renders an expert's calendar range as an ICS feed or a PDF
// agenda. Both are read-only projections of the listing query.
type ExportService struct {
	appointments *AppointmentService
	ics          *export.ICSExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(appointments *AppointmentService, ics *export.ICSExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{appointments: appointments, ics: ics, pdf: pdf, logger: logger}
}

// RenderICS returns the owner's occurrences in the range as VCALENDAR text.
func (s *ExportService) RenderICS(ctx context.Context, ownerID string, from, to time.Time) (string, error) {
	occurrences, err := s.appointments.List(ctx, ownerID, from, to)
	if err != nil {
		return "", err
	}

	events := make([]export.ICSEvent, len(occurrences))
	for i, occ := range occurrences {
		events[i] = export.ICSEvent{
			UID:      occ.ID,
			Summary:  occ.Title,
			StartAt:  occ.StartAt,
			EndAt:    occ.EndAt,
			AllDay:   occ.AllDay,
			Location: deref(occ.Location),
		}
		events[i].Description = deref(occ.Description)
	}
	return s.ics.Render(events), nil
}

// RenderAgendaPDF returns the owner's occurrences in the range as a tabular
// PDF agenda.
func (s *ExportService) RenderAgendaPDF(ctx context.Context, ownerID string, from, to time.Time) ([]byte, error) {
	occurrences, err := s.appointments.List(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Title", "Location"},
		Rows:    make([]map[string]string, len(occurrences)),
	}
	for i, occ := range occurrences {
		row := map[string]string{
			"Date":     occ.StartAt.Format("2006-01-02"),
			"Title":    occ.Title,
			"Location": deref(occ.Location),
		}
		if occ.AllDay {
			row["Start"] = "all day"
			row["End"] = ""
		} else {
			row["Start"] = occ.StartAt.Format("15:04")
			if occ.EndAt != nil {
				row["End"] = occ.EndAt.Format("15:04")
			}
		}
		dataset.Rows[i] = row
	}

	rendered, err := s.pdf.Render(dataset, "Agenda")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda")
	}
	return rendered, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
