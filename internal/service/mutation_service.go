package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/expert-calendar-api/internal/dto"
	"github.com/noah-isme/expert-calendar-api/internal/models"
	"github.com/noah-isme/expert-calendar-api/internal/repository"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

// MutationService applies scope-aware updates and deletes to existing
// occurrences. The three scopes are structurally different code paths:
// single touches one row (flagging series members as exceptions), series
// touches every member plus the template's content fields, future touches
// members from the target onward and never the template.
type MutationService struct {
	repo    appointmentRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMutationService constructs the service.
func NewMutationService(repo appointmentRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *MutationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// Update patches the occurrence under the given scope and returns the
// originally targeted occurrence re-read after the write.
func (s *MutationService) Update(ctx context.Context, ownerID, occurrenceID string, req dto.UpdateAppointmentRequest, scope models.MutationScope) (*models.Occurrence, error) {
	occ, err := s.authorize(ctx, ownerID, occurrenceID)
	if err != nil {
		return nil, err
	}

	if req.Empty() {
		return occ, nil
	}

	patchStart, patchEnd, err := parsePatchTiming(req)
	if err != nil {
		return nil, err
	}

	// Effective post-patch timing, merged onto the loaded row, decides
	// validity before anything is written.
	effectiveAllDay := occ.AllDay
	if req.AllDay != nil {
		effectiveAllDay = *req.AllDay
	}
	effectiveStart := occ.StartAt
	if patchStart != nil {
		effectiveStart = *patchStart
	}
	effectiveEnd := occ.EndAt
	if patchEnd != nil {
		effectiveEnd = patchEnd
	}
	if !effectiveAllDay && effectiveEnd != nil && !effectiveEnd.After(effectiveStart) {
		return nil, appErrors.Validation("endAt", "must be after startAt")
	}

	patch := &repository.Patch{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Validation("title", "must not be empty")
		}
		patch.Set("title", title)
	}
	if req.Description != nil {
		patch.Set("description", *req.Description)
	}
	if req.Location != nil {
		patch.Set("location", *req.Location)
	}
	if req.Color != nil {
		patch.Set("color", *req.Color)
	}
	if req.AllDay != nil {
		patch.Set("all_day", *req.AllDay)
	}
	if patchStart != nil {
		patch.Set("start_at", *patchStart)
	}
	if effectiveAllDay {
		// All-day occurrences never carry an end instant, whatever the
		// patch supplied.
		patch.Set("end_at", nil)
	} else if patchEnd != nil {
		patch.Set("end_at", *patchEnd)
	}

	switch {
	case occ.SeriesID == nil || scope == models.ScopeSingle:
		if occ.SeriesID != nil {
			patch.Set("is_exception", true)
		}
		if err := s.repo.UpdateOne(ctx, occ.ID, patch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment")
		}
	case scope == models.ScopeSeries:
		templatePatch := contentPatch(req)
		if err := s.repo.UpdateSeries(ctx, *occ.SeriesID, ownerID, patch, templatePatch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update series")
		}
	case scope == models.ScopeFuture:
		if err := s.repo.UpdateFuture(ctx, *occ.SeriesID, ownerID, occ.StartAt, patch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update future occurrences")
		}
	}

	s.cache.InvalidateOwner(ctx, ownerID)
	if s.metrics != nil {
		s.metrics.RecordMutation("update", string(scope))
	}

	updated, err := s.repo.FindOccurrence(ctx, occ.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload appointment")
	}
	return updated, nil
}

// Remove deletes the occurrence under the given scope.
func (s *MutationService) Remove(ctx context.Context, ownerID, occurrenceID string, scope models.MutationScope) error {
	occ, err := s.authorize(ctx, ownerID, occurrenceID)
	if err != nil {
		return err
	}

	switch {
	case occ.SeriesID == nil || scope == models.ScopeSingle:
		if err := s.repo.DeleteOne(ctx, occ.ID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment")
		}
	case scope == models.ScopeSeries:
		if err := s.repo.DeleteSeries(ctx, *occ.SeriesID, ownerID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete series")
		}
	case scope == models.ScopeFuture:
		if err := s.repo.DeleteFuture(ctx, *occ.SeriesID, ownerID, occ.StartAt); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete future occurrences")
		}
	}

	s.cache.InvalidateOwner(ctx, ownerID)
	if s.metrics != nil {
		s.metrics.RecordMutation("delete", string(scope))
	}
	s.logger.Info("appointment removed",
		zap.String("occurrence_id", occ.ID),
		zap.String("owner_id", ownerID),
		zap.String("scope", string(scope)),
	)
	return nil
}

// authorize loads the target occurrence and enforces ownership before any
// write is attempted.
func (s *MutationService) authorize(ctx context.Context, ownerID, occurrenceID string) (*models.Occurrence, error) {
	occ, err := s.repo.FindOccurrence(ctx, occurrenceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	if occ.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another expert")
	}
	return occ, nil
}

// contentPatch extracts the content-only subset of the request for the
// series template: title, description, location, allDay and color, never
// timing or the recurrence rule.
func contentPatch(req dto.UpdateAppointmentRequest) *repository.Patch {
	patch := &repository.Patch{}
	if req.Title != nil {
		patch.Set("title", strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		patch.Set("description", *req.Description)
	}
	if req.Location != nil {
		patch.Set("location", *req.Location)
	}
	if req.Color != nil {
		patch.Set("color", *req.Color)
	}
	if req.AllDay != nil {
		patch.Set("all_day", *req.AllDay)
	}
	return patch
}

func parsePatchTiming(req dto.UpdateAppointmentRequest) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if req.StartAt != nil {
		parsed, err := parseInstant(*req.StartAt)
		if err != nil {
			return nil, nil, appErrors.Validation("startAt", "must be a valid RFC3339 instant")
		}
		start = &parsed
	}
	if req.EndAt != nil {
		parsed, err := parseInstant(*req.EndAt)
		if err != nil {
			return nil, nil, appErrors.Validation("endAt", "must be a valid RFC3339 instant")
		}
		end = &parsed
	}
	return start, end, nil
}
