package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/expert-calendar-api/internal/models"
	"github.com/noah-isme/expert-calendar-api/pkg/export"
)

func newExportServiceForTest(repo *appointmentRepoStub) *ExportService {
	appointments := NewAppointmentService(repo, nil, nil, nil, nil)
	return NewExportService(appointments, export.NewICSExporter("Expert Calendar"), export.NewPDFExporter(), nil)
}

func TestExportServiceRenderICS(t *testing.T) {
	end := time.Date(2025, time.January, 6, 11, 0, 0, 0, time.UTC)
	location := "Room 2"
	repo := &appointmentRepoStub{rangeItems: []models.Occurrence{
		{
			ID:       "occ-1",
			OwnerID:  "expert-1",
			Title:    "Consultation",
			Location: &location,
			StartAt:  time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC),
			EndAt:    &end,
		},
		{
			ID:      "occ-2",
			OwnerID: "expert-1",
			Title:   "Planning day",
			StartAt: time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
		},
	}}
	svc := newExportServiceForTest(repo)

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	rendered, err := svc.RenderICS(context.Background(), "expert-1", from, to)
	require.NoError(t, err)

	require.Contains(t, rendered, "BEGIN:VCALENDAR")
	require.Contains(t, rendered, "X-WR-CALNAME:Expert Calendar")
	require.Contains(t, rendered, "SUMMARY:Consultation")
	require.Contains(t, rendered, "LOCATION:Room 2")
	require.Contains(t, rendered, "SUMMARY:Planning day")
	// The all-day occurrence uses a date value rather than an instant.
	require.Contains(t, rendered, "VALUE=DATE")
	require.Contains(t, rendered, "END:VCALENDAR")
}

func TestExportServiceRenderAgendaPDF(t *testing.T) {
	end := time.Date(2025, time.January, 6, 11, 0, 0, 0, time.UTC)
	repo := &appointmentRepoStub{rangeItems: []models.Occurrence{
		{
			ID:      "occ-1",
			OwnerID: "expert-1",
			Title:   "Consultation",
			StartAt: time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC),
			EndAt:   &end,
		},
	}}
	svc := newExportServiceForTest(repo)

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	rendered, err := svc.RenderAgendaPDF(context.Background(), "expert-1", from, to)
	require.NoError(t, err)
	require.NotEmpty(t, rendered)
	require.Equal(t, "%PDF", string(rendered[:4]))
}

func TestExportServiceRenderICSListError(t *testing.T) {
	repo := &appointmentRepoStub{rangeErr: context.DeadlineExceeded}
	svc := newExportServiceForTest(repo)

	_, err := svc.RenderICS(context.Background(), "expert-1", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
}
