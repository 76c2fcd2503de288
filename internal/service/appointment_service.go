package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/expert-calendar-api/internal/dto"
	"github.com/noah-isme/expert-calendar-api/internal/models"
	"github.com/noah-isme/expert-calendar-api/internal/recurrence"
	"github.com/noah-isme/expert-calendar-api/internal/repository"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

// appointmentRepository is the transactional persistence port shared by the
// appointment and mutation services.
type appointmentRepository interface {
	FindOccurrence(ctx context.Context, id string) (*models.Occurrence, error)
	ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Occurrence, error)
	ListBySeries(ctx context.Context, seriesID, ownerID string) ([]models.Occurrence, error)
	CreateOccurrence(ctx context.Context, occ *models.Occurrence) error
	CreateSeries(ctx context.Context, series *models.Series, occurrences []models.Occurrence) error
	UpdateOne(ctx context.Context, id string, patch *repository.Patch) error
	UpdateSeries(ctx context.Context, seriesID, ownerID string, occPatch, templatePatch *repository.Patch) error
	UpdateFuture(ctx context.Context, seriesID, ownerID string, from time.Time, patch *repository.Patch) error
	DeleteOne(ctx context.Context, id string) error
	DeleteSeries(ctx context.Context, seriesID, ownerID string) error
	DeleteFuture(ctx context.Context, seriesID, ownerID string, from time.Time) error
}

// AppointmentService creates appointments and lists an expert's calendar.
// Series creation is all-or-nothing: the series row and every generated
// occurrence commit together or not at all.
type AppointmentService struct {
	repo      appointmentRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentService constructs the service.
func NewAppointmentService(repo appointmentRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns the expert's occurrences with startAt in [from, to), ascending.
func (s *AppointmentService) List(ctx context.Context, ownerID string, from, to time.Time) ([]models.Occurrence, error) {
	cacheKey := listCacheKey(ownerID, from, to)
	if s.cache.Enabled() {
		var cached []models.Occurrence
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return cached, nil
		}
	}

	occurrences, err := s.repo.ListRange(ctx, ownerID, from.UTC(), to.UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}

	if s.cache.Enabled() {
		s.cache.Set(ctx, cacheKey, occurrences)
	}
	return occurrences, nil
}

// Create validates the request and persists either one standalone occurrence
// or a complete series expanded from the recurrence rule.
func (s *AppointmentService) Create(ctx context.Context, ownerID string, req dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, appErrors.Validation("title", "must not be empty")
	}

	startAt, err := parseInstant(req.StartAt)
	if err != nil {
		return nil, appErrors.Validation("startAt", "must be a valid RFC3339 instant")
	}

	var endAt *time.Time
	if req.EndAt != nil && *req.EndAt != "" {
		parsed, err := parseInstant(*req.EndAt)
		if err != nil {
			return nil, appErrors.Validation("endAt", "must be a valid RFC3339 instant")
		}
		endAt = &parsed
	}

	if req.AllDay {
		endAt = nil
	} else if endAt != nil && !endAt.After(startAt) {
		return nil, appErrors.Validation("endAt", "must be after startAt")
	}

	if req.Recurrence == nil || !req.Recurrence.Enabled {
		occ := models.Occurrence{
			OwnerID:     ownerID,
			Title:       title,
			Description: req.Description,
			Location:    req.Location,
			Color:       req.Color,
			StartAt:     startAt,
			EndAt:       endAt,
			AllDay:      req.AllDay,
		}
		if err := s.repo.CreateOccurrence(ctx, &occ); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
		}
		s.cache.InvalidateOwner(ctx, ownerID)
		if s.metrics != nil {
			s.metrics.RecordAppointmentCreated(false, 1)
		}
		return &dto.CreateAppointmentResponse{Occurrence: &occ}, nil
	}

	rule, err := s.buildRule(req.Recurrence)
	if err != nil {
		return nil, err
	}

	slots := recurrence.Expand(startAt, endAt, req.AllDay, rule)
	if len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no occurrences generated")
	}

	series := models.Series{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
		Location:    req.Location,
		Color:       req.Color,
		AllDay:      req.AllDay,
		StartAt:     startAt,
		EndAt:       endAt,
		Freq:        rule.Freq,
		Interval:    rule.Interval,
		EndMode:     rule.EndMode,
	}
	switch rule.EndMode {
	case models.EndModeCount:
		count := rule.Count
		series.Count = &count
	case models.EndModeUntil:
		until := rule.Until
		series.Until = &until
	}
	if rule.Freq == models.FrequencyWeekly {
		series.Weekdays = rule.Weekdays
	}

	occurrences := make([]models.Occurrence, len(slots))
	for i, slot := range slots {
		index := slot.Index
		occurrences[i] = models.Occurrence{
			OwnerID:         ownerID,
			Title:           title,
			Description:     req.Description,
			Location:        req.Location,
			Color:           req.Color,
			StartAt:         slot.StartAt,
			EndAt:           slot.EndAt,
			AllDay:          req.AllDay,
			OccurrenceIndex: &index,
		}
	}

	if err := s.repo.CreateSeries(ctx, &series, occurrences); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create series")
	}

	created, err := s.repo.ListBySeries(ctx, series.ID, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created series")
	}

	s.cache.InvalidateOwner(ctx, ownerID)
	if s.metrics != nil {
		s.metrics.RecordAppointmentCreated(true, len(created))
	}
	s.logger.Info("series created",
		zap.String("series_id", series.ID),
		zap.String("owner_id", ownerID),
		zap.Int("occurrences", len(created)),
	)

	return &dto.CreateAppointmentResponse{SeriesID: &series.ID, Occurrences: created}, nil
}

// buildRule validates the recurrence block and produces a normalised rule.
func (s *AppointmentService) buildRule(input *dto.RecurrenceInput) (recurrence.Rule, error) {
	freq, ok := models.ParseFrequency(strings.ToUpper(input.Freq))
	if !ok {
		return recurrence.Rule{}, appErrors.Validation("recurrence.freq", "must be one of DAILY, WEEKLY, MONTHLY")
	}

	rule := recurrence.Rule{
		Freq:     freq,
		Interval: input.Interval,
		Weekdays: input.Weekdays,
	}

	switch strings.ToLower(input.Mode) {
	case "count":
		if input.Count == nil || *input.Count <= 0 {
			return recurrence.Rule{}, appErrors.Validation("recurrence.count", "required and must be positive for count mode")
		}
		rule.EndMode = models.EndModeCount
		rule.Count = *input.Count
	case "until":
		if input.Until == nil || *input.Until == "" {
			return recurrence.Rule{}, appErrors.Validation("recurrence.until", "required for until mode")
		}
		until, err := parseInstant(*input.Until)
		if err != nil {
			return recurrence.Rule{}, appErrors.Validation("recurrence.until", "must be a valid RFC3339 instant")
		}
		rule.EndMode = models.EndModeUntil
		rule.Until = until
	default:
		return recurrence.Rule{}, appErrors.Validation("recurrence.mode", "must be count or until")
	}

	return rule.Normalize(), nil
}

func parseInstant(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func listCacheKey(ownerID string, from, to time.Time) string {
	return fmt.Sprintf("appointments:%s:%d:%d", ownerID, from.Unix(), to.Unix())
}
