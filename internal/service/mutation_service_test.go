package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/expert-calendar-api/internal/dto"
	"github.com/noah-isme/expert-calendar-api/internal/models"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

func seriesMember(start time.Time) *models.Occurrence {
	seriesID := "series-1"
	index := 2
	end := start.Add(time.Hour)
	return &models.Occurrence{
		ID:              "occ-3",
		OwnerID:         "expert-1",
		Title:           "Therapy",
		StartAt:         start,
		EndAt:           &end,
		SeriesID:        &seriesID,
		OccurrenceIndex: &index,
	}
}

func TestMutationServiceUpdateNotFound(t *testing.T) {
	repo := &appointmentRepoStub{}
	svc := NewMutationService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "expert-1", "missing", dto.UpdateAppointmentRequest{Title: strPtr("x")}, models.ScopeSingle)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMutationServiceUpdateForbidden(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	occ.OwnerID = "someone-else"
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{Title: strPtr("x")}, models.ScopeSingle)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updateOnePatch)
}

func TestMutationServiceUpdateSingleMarksException(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{
		Title: strPtr("Rescheduled"),
	}, models.ScopeSingle)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, occ.ID, repo.updateOneID)
	require.NotNil(t, repo.updateOnePatch)
	title, ok := repo.updateOnePatch.Value("title")
	require.True(t, ok)
	assert.Equal(t, "Rescheduled", title)
	exception, ok := repo.updateOnePatch.Value("is_exception")
	require.True(t, ok)
	assert.Equal(t, true, exception)

	assert.Empty(t, repo.updateSeriesID)
}

func TestMutationServiceUpdateStandaloneKeepsExceptionFlag(t *testing.T) {
	occ := &models.Occurrence{
		ID:      "occ-1",
		OwnerID: "expert-1",
		Title:   "One-off",
		StartAt: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	// A series-wide scope on a standalone occurrence degrades to single.
	_, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{
		Title: strPtr("Renamed"),
	}, models.ScopeSeries)
	require.NoError(t, err)

	assert.Equal(t, occ.ID, repo.updateOneID)
	_, ok := repo.updateOnePatch.Value("is_exception")
	assert.False(t, ok)
	assert.Empty(t, repo.updateSeriesID)
}

func TestMutationServiceUpdateSeriesScope(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{
		Title:   strPtr("Group session"),
		StartAt: strPtr("2025-03-03T14:00:00Z"),
		EndAt:   strPtr("2025-03-03T15:00:00Z"),
	}, models.ScopeSeries)
	require.NoError(t, err)

	assert.Equal(t, "series-1", repo.updateSeriesID)
	require.NotNil(t, repo.occPatch)
	_, ok := repo.occPatch.Value("start_at")
	assert.True(t, ok)

	// Template only receives content fields, never timing.
	require.NotNil(t, repo.templatePatch)
	title, ok := repo.templatePatch.Value("title")
	require.True(t, ok)
	assert.Equal(t, "Group session", title)
	_, ok = repo.templatePatch.Value("start_at")
	assert.False(t, ok)
	_, ok = repo.templatePatch.Value("end_at")
	assert.False(t, ok)
}

func TestMutationServiceUpdateFutureScope(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	occ := seriesMember(start)
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{
		Location: strPtr("Room 4"),
	}, models.ScopeFuture)
	require.NoError(t, err)

	assert.Equal(t, "series-1", repo.updateSeriesID)
	assert.Equal(t, start, repo.futureFrom)
	require.NotNil(t, repo.futurePatch)
	assert.Nil(t, repo.templatePatch)
}

func TestMutationServiceUpdateRevalidatesEffectiveTiming(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	// Existing endAt is 10:00; moving startAt past it must fail before any
	// write happens.
	_, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{
		StartAt: strPtr("2025-03-03T11:00:00Z"),
	}, models.ScopeSingle)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updateOnePatch)
}

func TestMutationServiceUpdateAllDayForcesNilEnd(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	allDay := true
	_, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{
		AllDay: &allDay,
		EndAt:  strPtr("2025-03-03T18:00:00Z"),
	}, models.ScopeSingle)
	require.NoError(t, err)

	end, ok := repo.updateOnePatch.Value("end_at")
	require.True(t, ok)
	assert.Nil(t, end)
}

func TestMutationServiceUpdateEmptyPatchIsNoop(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "expert-1", occ.ID, dto.UpdateAppointmentRequest{}, models.ScopeSingle)
	require.NoError(t, err)
	assert.Equal(t, occ.ID, updated.ID)
	assert.Nil(t, repo.updateOnePatch)
}

func TestMutationServiceRemoveSingle(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	require.NoError(t, svc.Remove(context.Background(), "expert-1", occ.ID, models.ScopeSingle))
	assert.Equal(t, []string{occ.ID}, repo.deletedOne)
	assert.Empty(t, repo.deletedSeries)
}

func TestMutationServiceRemoveSeries(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	require.NoError(t, svc.Remove(context.Background(), "expert-1", occ.ID, models.ScopeSeries))
	assert.Equal(t, []string{"series-1"}, repo.deletedSeries)
	assert.Empty(t, repo.deletedOne)
	assert.Empty(t, repo.deletedFutureAt)
}

func TestMutationServiceRemoveFuture(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	occ := seriesMember(start)
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	require.NoError(t, svc.Remove(context.Background(), "expert-1", occ.ID, models.ScopeFuture))
	assert.Equal(t, []string{"series-1"}, repo.deletedSeries)
	assert.Equal(t, []time.Time{start}, repo.deletedFutureAt)
	assert.Empty(t, repo.deletedOne)
}

func TestMutationServiceRemoveForbidden(t *testing.T) {
	occ := seriesMember(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
	occ.OwnerID = "someone-else"
	repo := &appointmentRepoStub{occurrence: occ}
	svc := NewMutationService(repo, nil, nil, nil)

	err := svc.Remove(context.Background(), "expert-1", occ.ID, models.ScopeSeries)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deletedOne)
	assert.Empty(t, repo.deletedSeries)
}
