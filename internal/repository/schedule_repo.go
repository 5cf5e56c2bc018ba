package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"

	"github.com/google/uuid"
)

// ScheduleRepository stores the operator's recurring working hours and ad-hoc
// availability blocks. Both are read on every availability computation and
// every booking validation.
type ScheduleRepository struct {
	DB *sql.DB
}

func NewScheduleRepository(database *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: database}
}

func (r *ScheduleRepository) GetWorkingHours(ctx context.Context) ([]db.WorkingHours, error) {
	query := `SELECT day_of_week, start_time, end_time, is_enabled FROM working_hours ORDER BY day_of_week`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query working hours: %w", err)
	}
	defer rows.Close()

	var hours []db.WorkingHours
	for rows.Next() {
		var wh db.WorkingHours
		if err := rows.Scan(&wh.DayOfWeek, &wh.StartTime, &wh.EndTime, &wh.IsEnabled); err != nil {
			return nil, fmt.Errorf("scan working hours: %w", err)
		}
		hours = append(hours, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate working hours: %w", err)
	}
	return hours, nil
}

// GetWorkingHoursForDay returns nil when no row exists for the weekday.
func (r *ScheduleRepository) GetWorkingHoursForDay(ctx context.Context, dayOfWeek int) (*db.WorkingHours, error) {
	var wh db.WorkingHours
	query := `SELECT day_of_week, start_time, end_time, is_enabled FROM working_hours WHERE day_of_week = $1`
	err := r.DB.QueryRowContext(ctx, query, dayOfWeek).Scan(&wh.DayOfWeek, &wh.StartTime, &wh.EndTime, &wh.IsEnabled)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query working hours for day %d: %w", dayOfWeek, err)
	}
	return &wh, nil
}

func (r *ScheduleRepository) UpsertWorkingHours(ctx context.Context, wh db.WorkingHours) error {
	query := `
		INSERT INTO working_hours (day_of_week, start_time, end_time, is_enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_of_week)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, is_enabled = EXCLUDED.is_enabled`
	if _, err := r.DB.ExecContext(ctx, query, wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsEnabled); err != nil {
		return fmt.Errorf("upsert working hours: %w", err)
	}
	return nil
}

// ListBlocksBetween returns blocks whose [start_date, end_date) range overlaps
// [from, to).
func (r *ScheduleRepository) ListBlocksBetween(ctx context.Context, from, to time.Time) ([]db.AvailabilityBlock, error) {
	query := `
		SELECT id, start_date, end_date, reason, created_at
		FROM availability_blocks
		WHERE start_date < $2 AND end_date > $1
		ORDER BY start_date`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query availability blocks: %w", err)
	}
	defer rows.Close()

	var blocks []db.AvailabilityBlock
	for rows.Next() {
		var b db.AvailabilityBlock
		if err := rows.Scan(&b.ID, &b.StartDate, &b.EndDate, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan availability block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability blocks: %w", err)
	}
	return blocks, nil
}

func (r *ScheduleRepository) CreateBlock(ctx context.Context, b *db.AvailabilityBlock) error {
	query := `
		INSERT INTO availability_blocks (id, start_date, end_date, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`
	if err := r.DB.QueryRowContext(ctx, query, b.ID, b.StartDate, b.EndDate, b.Reason).Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("insert availability block: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM availability_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability block: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound(fmt.Sprintf("availability block %s", id))
	}
	return nil
}
