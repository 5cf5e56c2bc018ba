package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meetbook/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MeetingReminder pairs a meeting with its resolved attendee contact details.
type MeetingReminder struct {
	Meeting       db.Meeting
	AttendeeName  string
	AttendeeEmail string
	AttendeePhone string
}

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetMeetingsDueForReminder finds SCHEDULED meetings starting within the next
// 'within' that have not been reminded yet, with attendee contact info joined
// from whichever of lead/customer the meeting references.
func (r *JobRepository) GetMeetingsDueForReminder(ctx context.Context, within time.Duration) ([]MeetingReminder, error) {
	query := `
		SELECT m.id, m.title, m.scheduled_at, m.duration_minutes, m.meet_url,
		       COALESCE(l.name, c.name, '') AS attendee_name,
		       COALESCE(l.email, c.email, '') AS attendee_email,
		       COALESCE(l.phone, c.phone, '') AS attendee_phone
		FROM meetings m
		LEFT JOIN leads l ON m.lead_id = l.id
		LEFT JOIN customers c ON m.customer_id = c.id
		WHERE m.status = $1
		  AND m.reminder_sent = FALSE
		  AND m.scheduled_at > NOW()
		  AND m.scheduled_at <= NOW() + $2::interval
		ORDER BY m.scheduled_at`
	interval := fmt.Sprintf("%d minutes", int(within.Minutes()))
	rows, err := r.DB.QueryContext(ctx, query, db.StatusScheduled, interval)
	if err != nil {
		return nil, fmt.Errorf("query meetings due for reminder: %w", err)
	}
	defer rows.Close()

	var reminders []MeetingReminder
	for rows.Next() {
		var rem MeetingReminder
		if err := rows.Scan(
			&rem.Meeting.ID, &rem.Meeting.Title, &rem.Meeting.ScheduledAt,
			&rem.Meeting.DurationMinutes, &rem.Meeting.MeetURL,
			&rem.AttendeeName, &rem.AttendeeEmail, &rem.AttendeePhone,
		); err != nil {
			return nil, fmt.Errorf("scan meeting reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meeting reminders: %w", err)
	}
	return reminders, nil
}

// MarkRemindersSent flags the given meetings so the sweep never re-sends.
func (r *JobRepository) MarkRemindersSent(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `UPDATE meetings SET reminder_sent = TRUE, updated_at = NOW() WHERE id = ANY($1::uuid[])`
	if _, err := r.DB.ExecContext(ctx, query, pq.Array(raw)); err != nil {
		return fmt.Errorf("mark reminders sent: %w", err)
	}
	return nil
}
