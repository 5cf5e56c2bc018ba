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
	"github.com/lib/pq"
)

const meetingColumns = `id, lead_id, customer_id, event_id, meet_url, title, scheduled_at, duration_minutes, timezone, status, reminder_sent, created_at, updated_at`

type MeetingRepository struct {
	DB *sql.DB
}

func NewMeetingRepository(database *sql.DB) *MeetingRepository {
	return &MeetingRepository{DB: database}
}

// CreateMeeting inserts a meeting after re-checking for overlapping
// non-cancelled meetings inside one serializable transaction. The meetings
// table additionally carries an exclusion constraint on the scheduled range,
// so of two concurrent bookings for the same slot the first writer wins and
// the loser gets a slot-unavailable error.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, m *db.Meeting) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	conflict, err := overlapExists(ctx, tx, m.ScheduledAt, m.DurationMinutes, uuid.Nil)
	if err != nil {
		return err
	}
	if conflict {
		return apperrors.SlotUnavailable("overlaps an existing meeting")
	}

	query := `
		INSERT INTO meetings
		(id, lead_id, customer_id, event_id, meet_url, title, scheduled_at, duration_minutes, timezone, status, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = tx.ExecContext(ctx, query,
		m.ID, m.LeadID, m.CustomerID, m.EventID, m.MeetURL, m.Title,
		m.ScheduledAt, m.DurationMinutes, m.Timezone, m.Status, m.ReminderSent,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapConflictError(err, "insert meeting")
	}

	if err := tx.Commit(); err != nil {
		return mapConflictError(err, "commit meeting")
	}
	return nil
}

func (r *MeetingRepository) GetMeeting(ctx context.Context, id uuid.UUID) (*db.Meeting, error) {
	var m db.Meeting
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.LeadID, &m.CustomerID, &m.EventID, &m.MeetURL, &m.Title,
		&m.ScheduledAt, &m.DurationMinutes, &m.Timezone, &m.Status, &m.ReminderSent,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("meeting %s", id))
		}
		return nil, fmt.Errorf("query meeting: %w", err)
	}
	return &m, nil
}

// ListBetween returns non-cancelled meetings whose scheduled window overlaps
// [from, to).
func (r *MeetingRepository) ListBetween(ctx context.Context, from, to time.Time) ([]db.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE status <> $1
		  AND scheduled_at < $3
		  AND scheduled_at + make_interval(mins => duration_minutes) > $2
		ORDER BY scheduled_at`
	rows, err := r.DB.QueryContext(ctx, query, db.StatusCancelled, from, to)
	if err != nil {
		return nil, fmt.Errorf("query meetings between: %w", err)
	}
	defer rows.Close()

	var meetings []db.Meeting
	for rows.Next() {
		var m db.Meeting
		if err := rows.Scan(
			&m.ID, &m.LeadID, &m.CustomerID, &m.EventID, &m.MeetURL, &m.Title,
			&m.ScheduledAt, &m.DurationMinutes, &m.Timezone, &m.Status, &m.ReminderSent,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}
	return meetings, nil
}

// UpdateSchedule moves a meeting to a new time/duration and records the
// identifiers adopted from the sync attempt. The overlap re-check excludes the
// meeting itself.
func (r *MeetingRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, scheduledAt time.Time, durationMinutes int, eventID, meetURL string) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	conflict, err := overlapExists(ctx, tx, scheduledAt, durationMinutes, id)
	if err != nil {
		return err
	}
	if conflict {
		return apperrors.SlotUnavailable("overlaps an existing meeting")
	}

	query := `
		UPDATE meetings
		SET scheduled_at = $2, duration_minutes = $3, event_id = $4, meet_url = $5, reminder_sent = FALSE, updated_at = NOW()
		WHERE id = $1`
	result, err := tx.ExecContext(ctx, query, id, scheduledAt, durationMinutes, eventID, meetURL)
	if err != nil {
		return mapConflictError(err, "update meeting schedule")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound(fmt.Sprintf("meeting %s", id))
	}

	if err := tx.Commit(); err != nil {
		return mapConflictError(err, "commit reschedule")
	}
	return nil
}

// UpdateStatus transitions a SCHEDULED meeting to a terminal status. Returns
// false when the meeting exists but is already terminal.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	query := `UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`
	result, err := r.DB.ExecContext(ctx, query, id, status, db.StatusScheduled)
	if err != nil {
		return false, fmt.Errorf("update meeting status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func overlapExists(ctx context.Context, tx *sql.Tx, scheduledAt time.Time, durationMinutes int, exclude uuid.UUID) (bool, error) {
	end := scheduledAt.Add(time.Duration(durationMinutes) * time.Minute)
	query := `
		SELECT id FROM meetings
		WHERE status <> $1
		  AND id <> $2
		  AND scheduled_at < $4
		  AND scheduled_at + make_interval(mins => duration_minutes) > $3
		LIMIT 1
		FOR UPDATE`
	var existing uuid.UUID
	err := tx.QueryRowContext(ctx, query, db.StatusCancelled, exclude, scheduledAt, end).Scan(&existing)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check overlapping meetings: %w", err)
	}
	return true, nil
}

// mapConflictError converts the exclusion-constraint violation and
// serialization failures raised by concurrent writes into the domain's
// slot-unavailable error.
func mapConflictError(err error, op string) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23P01", "40001": // exclusion_violation, serialization_failure
			return apperrors.SlotUnavailable("overlaps an existing meeting")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
