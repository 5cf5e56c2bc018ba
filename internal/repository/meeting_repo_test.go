package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeetingRepo(t *testing.T) (*MeetingRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewMeetingRepository(database), mock
}

func sampleMeeting() *db.Meeting {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &db.Meeting{
		ID:              uuid.New(),
		EventID:         "gcal-evt-1",
		MeetURL:         "https://meet.google.com/abc-defg-hij",
		Title:           "Discovery Call with Ada Lovelace",
		ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Timezone:        "UTC",
		Status:          db.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

const overlapQuery = `
			SELECT id FROM meetings
			WHERE status <> $1
			  AND id <> $2
			  AND scheduled_at < $4
			  AND scheduled_at + make_interval(mins => duration_minutes) > $3
			LIMIT 1
			FOR UPDATE`

func TestCreateMeeting(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	m := sampleMeeting()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(overlapQuery)).
		WithArgs(db.StatusCancelled, uuid.Nil, m.ScheduledAt, m.ScheduledAt.Add(30*time.Minute)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO meetings`)).
		WithArgs(m.ID, m.LeadID, m.CustomerID, m.EventID, m.MeetURL, m.Title,
			m.ScheduledAt, m.DurationMinutes, m.Timezone, m.Status, m.ReminderSent,
			m.CreatedAt, m.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateMeeting(context.Background(), m)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMeetingOverlapDetectedInTransaction(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	m := sampleMeeting()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(overlapQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectRollback()

	err := repo.CreateMeeting(context.Background(), m)
	require.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMeetingExclusionViolationMapsToSlotUnavailable(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	m := sampleMeeting()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(overlapQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO meetings`)).
		WillReturnError(&pq.Error{Code: "23P01"})
	mock.ExpectRollback()

	err := repo.CreateMeeting(context.Background(), m)
	require.ErrorIs(t, err, apperrors.ErrSlotUnavailable,
		"exclusion constraint violation must surface as slot unavailable")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMeetingSerializationFailureMapsToSlotUnavailable(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	m := sampleMeeting()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(overlapQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO meetings`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	err := repo.CreateMeeting(context.Background(), m)
	require.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
}

func TestGetMeetingNotFound(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMeeting(context.Background(), id)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetMeeting(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	m := sampleMeeting()

	rows := sqlmock.NewRows([]string{
		"id", "lead_id", "customer_id", "event_id", "meet_url", "title",
		"scheduled_at", "duration_minutes", "timezone", "status", "reminder_sent",
		"created_at", "updated_at",
	}).AddRow(m.ID, nil, nil, m.EventID, m.MeetURL, m.Title,
		m.ScheduledAt, m.DurationMinutes, m.Timezone, m.Status, m.ReminderSent,
		m.CreatedAt, m.UpdatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`)).
		WithArgs(m.ID).
		WillReturnRows(rows)

	got, err := repo.GetMeeting(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.EventID, got.EventID)
	assert.Nil(t, got.LeadID)
}

func TestUpdateScheduleExcludesSelf(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	id := uuid.New()
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(overlapQuery)).
		WithArgs(db.StatusCancelled, id, at, at.Add(30*time.Minute)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE meetings`)).
		WithArgs(id, at, 30, "gcal-evt-1", "https://meet.google.com/abc-defg-hij").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateSchedule(context.Background(), id, at, 30, "gcal-evt-1", "https://meet.google.com/abc-defg-hij")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScheduleMissingMeeting(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	id := uuid.New()
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(overlapQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE meetings`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateSchedule(context.Background(), id, at, 30, "evt", "url")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateStatusOnlyMovesScheduledMeetings(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`)).
		WithArgs(id, db.StatusCancelled, db.StatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(context.Background(), id, db.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok, "terminal meeting must not transition")
}

func TestListBetweenFiltersCancelled(t *testing.T) {
	repo, mock := newMeetingRepo(t)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	m := sampleMeeting()

	rows := sqlmock.NewRows([]string{
		"id", "lead_id", "customer_id", "event_id", "meet_url", "title",
		"scheduled_at", "duration_minutes", "timezone", "status", "reminder_sent",
		"created_at", "updated_at",
	}).AddRow(m.ID, nil, nil, m.EventID, m.MeetURL, m.Title,
		m.ScheduledAt, m.DurationMinutes, m.Timezone, m.Status, m.ReminderSent,
		m.CreatedAt, m.UpdatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM meetings`)).
		WithArgs(db.StatusCancelled, from, to).
		WillReturnRows(rows)

	meetings, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, m.ID, meetings[0].ID)
}
