package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/expert-calendar-api/internal/models"
)

const occurrenceColumns = `id, owner_id, title, description, location, color, start_at, end_at, all_day, series_id, occurrence_index, is_exception, created_at, updated_at`

// Patch accumulates column assignments for scoped updates. Values may be nil
// to clear a nullable column.
type Patch struct {
	columns []string
	args    []interface{}
}

// Set records an assignment for the given column.
func (p *Patch) Set(column string, value interface{}) {
	p.columns = append(p.columns, column)
	p.args = append(p.args, value)
}

// Empty reports whether no assignment was recorded.
func (p *Patch) Empty() bool {
	return len(p.columns) == 0
}

// Value returns the assignment recorded for a column, if any.
func (p *Patch) Value(column string) (interface{}, bool) {
	for i, col := range p.columns {
		if col == column {
			return p.args[i], true
		}
	}
	return nil, false
}

// setClause renders "col = $n, ..." starting at the given placeholder offset
// and returns the matching argument list.
func (p *Patch) setClause(offset int) (string, []interface{}) {
	parts := make([]string, len(p.columns))
	for i, col := range p.columns {
		parts[i] = fmt.Sprintf("%s = $%d", col, offset+i)
	}
	return strings.Join(parts, ", "), p.args
}

// AppointmentRepository persists occurrences and their series. Multi-row
// mutations run inside a single transaction so callers observe either the
// pre-call or the fully-applied state, never an interleaving.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs the repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// FindOccurrence fetches one occurrence row. sql.ErrNoRows passes through.
func (r *AppointmentRepository) FindOccurrence(ctx context.Context, id string) (*models.Occurrence, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, occurrenceColumns)
	var occ models.Occurrence
	if err := r.db.GetContext(ctx, &occ, query, id); err != nil {
		return nil, err
	}
	return &occ, nil
}

// ListRange returns an owner's occurrences with start_at in [from, to),
// ordered by start_at ascending.
func (r *AppointmentRepository) ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Occurrence, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments
WHERE owner_id = $1 AND start_at >= $2 AND start_at < $3
ORDER BY start_at ASC`, occurrenceColumns)
	occurrences := []models.Occurrence{}
	if err := r.db.SelectContext(ctx, &occurrences, query, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return occurrences, nil
}

// ListBySeries returns every occurrence of a series owned by the given
// expert, ordered by start_at ascending.
func (r *AppointmentRepository) ListBySeries(ctx context.Context, seriesID, ownerID string) ([]models.Occurrence, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments
WHERE series_id = $1 AND owner_id = $2
ORDER BY start_at ASC`, occurrenceColumns)
	occurrences := []models.Occurrence{}
	if err := r.db.SelectContext(ctx, &occurrences, query, seriesID, ownerID); err != nil {
		return nil, fmt.Errorf("list series occurrences: %w", err)
	}
	return occurrences, nil
}

// CreateOccurrence inserts a single standalone or series occurrence.
func (r *AppointmentRepository) CreateOccurrence(ctx context.Context, occ *models.Occurrence) error {
	prepareOccurrence(occ)
	const query = `INSERT INTO appointments (id, owner_id, title, description, location, color, start_at, end_at, all_day, series_id, occurrence_index, is_exception, created_at, updated_at)
VALUES (:id, :owner_id, :title, :description, :location, :color, :start_at, :end_at, :all_day, :series_id, :occurrence_index, :is_exception, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, occ); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// CreateSeries inserts the series row and its generated occurrences as one
// atomic unit. Either everything commits or nothing does.
func (r *AppointmentRepository) CreateSeries(ctx context.Context, series *models.Series, occurrences []models.Occurrence) (err error) {
	if series.ID == "" {
		series.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	series.CreatedAt = now
	series.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create series: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const seriesQuery = `INSERT INTO appointment_series (id, owner_id, title, description, location, color, all_day, start_at, end_at, freq, interval, end_mode, count, until, weekdays, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	if _, err = tx.ExecContext(ctx, seriesQuery,
		series.ID, series.OwnerID, series.Title, series.Description, series.Location,
		series.Color, series.AllDay, series.StartAt, series.EndAt,
		series.Freq, series.Interval, series.EndMode, series.Count, series.Until,
		pq.Array(series.Weekdays), series.CreatedAt, series.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create series: %w", err)
	}

	const occQuery = `INSERT INTO appointments (id, owner_id, title, description, location, color, start_at, end_at, all_day, series_id, occurrence_index, is_exception, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for i := range occurrences {
		occ := &occurrences[i]
		occ.SeriesID = &series.ID
		prepareOccurrence(occ)
		if _, err = tx.ExecContext(ctx, occQuery,
			occ.ID, occ.OwnerID, occ.Title, occ.Description, occ.Location, occ.Color,
			occ.StartAt, occ.EndAt, occ.AllDay, occ.SeriesID, occ.OccurrenceIndex,
			occ.IsException, occ.CreatedAt, occ.UpdatedAt,
		); err != nil {
			return fmt.Errorf("create series occurrence %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create series: %w", err)
	}
	return nil
}

// UpdateOne applies a patch to a single occurrence row.
func (r *AppointmentRepository) UpdateOne(ctx context.Context, id string, patch *Patch) error {
	if patch.Empty() {
		return nil
	}
	patch.Set("updated_at", time.Now().UTC())
	setClause, args := patch.setClause(2)
	query := fmt.Sprintf("UPDATE appointments SET %s WHERE id = $1", setClause)
	if _, err := r.db.ExecContext(ctx, query, append([]interface{}{id}, args...)...); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// UpdateSeries applies the occurrence patch to every member of the series
// and the template patch to the series row, atomically.
func (r *AppointmentRepository) UpdateSeries(ctx context.Context, seriesID, ownerID string, occPatch, templatePatch *Patch) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin series update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if !occPatch.Empty() {
		occPatch.Set("updated_at", now)
		setClause, args := occPatch.setClause(3)
		query := fmt.Sprintf("UPDATE appointments SET %s WHERE series_id = $1 AND owner_id = $2", setClause)
		if _, err = tx.ExecContext(ctx, query, append([]interface{}{seriesID, ownerID}, args...)...); err != nil {
			return fmt.Errorf("update series occurrences: %w", err)
		}
	}
	if !templatePatch.Empty() {
		templatePatch.Set("updated_at", now)
		setClause, args := templatePatch.setClause(3)
		query := fmt.Sprintf("UPDATE appointment_series SET %s WHERE id = $1 AND owner_id = $2", setClause)
		if _, err = tx.ExecContext(ctx, query, append([]interface{}{seriesID, ownerID}, args...)...); err != nil {
			return fmt.Errorf("update series template: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit series update: %w", err)
	}
	return nil
}

// UpdateFuture applies a patch to every series member starting at or after
// the given instant. The series template is untouched.
func (r *AppointmentRepository) UpdateFuture(ctx context.Context, seriesID, ownerID string, from time.Time, patch *Patch) error {
	if patch.Empty() {
		return nil
	}
	patch.Set("updated_at", time.Now().UTC())
	setClause, args := patch.setClause(4)
	query := fmt.Sprintf("UPDATE appointments SET %s WHERE series_id = $1 AND owner_id = $2 AND start_at >= $3", setClause)
	if _, err := r.db.ExecContext(ctx, query, append([]interface{}{seriesID, ownerID, from}, args...)...); err != nil {
		return fmt.Errorf("update future occurrences: %w", err)
	}
	return nil
}

// DeleteOne removes a single occurrence row.
func (r *AppointmentRepository) DeleteOne(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// DeleteSeries removes every occurrence of the series and the series row
// itself as one atomic unit.
func (r *AppointmentRepository) DeleteSeries(ctx context.Context, seriesID, ownerID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin series delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM appointments WHERE series_id = $1 AND owner_id = $2", seriesID, ownerID); err != nil {
		return fmt.Errorf("delete series occurrences: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM appointment_series WHERE id = $1 AND owner_id = $2", seriesID, ownerID); err != nil {
		return fmt.Errorf("delete series: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit series delete: %w", err)
	}
	return nil
}

// DeleteFuture removes every series member starting at or after the given
// instant, keeping the series row and earlier occurrences.
func (r *AppointmentRepository) DeleteFuture(ctx context.Context, seriesID, ownerID string, from time.Time) error {
	const query = "DELETE FROM appointments WHERE series_id = $1 AND owner_id = $2 AND start_at >= $3"
	if _, err := r.db.ExecContext(ctx, query, seriesID, ownerID, from); err != nil {
		return fmt.Errorf("delete future occurrences: %w", err)
	}
	return nil
}

func prepareOccurrence(occ *models.Occurrence) {
	if occ.ID == "" {
		occ.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if occ.CreatedAt.IsZero() {
		occ.CreatedAt = now
	}
	occ.UpdatedAt = now
}
