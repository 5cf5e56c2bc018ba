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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleRepo(t *testing.T) (*ScheduleRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewScheduleRepository(database), mock
}

func TestGetWorkingHours(t *testing.T) {
	repo, mock := newScheduleRepo(t)

	rows := sqlmock.NewRows([]string{"day_of_week", "start_time", "end_time", "is_enabled"}).
		AddRow(1, "09:00", "17:00", true).
		AddRow(6, "00:00", "00:00", false)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT day_of_week, start_time, end_time, is_enabled FROM working_hours ORDER BY day_of_week`)).
		WillReturnRows(rows)

	hours, err := repo.GetWorkingHours(context.Background())
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, db.WorkingHours{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsEnabled: true}, hours[0])
	assert.False(t, hours[1].IsEnabled)
}

func TestGetWorkingHoursForDayMissingRow(t *testing.T) {
	repo, mock := newScheduleRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT day_of_week, start_time, end_time, is_enabled FROM working_hours WHERE day_of_week = $1`)).
		WithArgs(6).
		WillReturnError(sql.ErrNoRows)

	wh, err := repo.GetWorkingHoursForDay(context.Background(), 6)
	require.NoError(t, err, "a missing weekday row is not an error")
	assert.Nil(t, wh)
}

func TestUpsertWorkingHours(t *testing.T) {
	repo, mock := newScheduleRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO working_hours`)).
		WithArgs(1, "09:00", "17:00", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertWorkingHours(context.Background(), db.WorkingHours{
		DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsEnabled: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBlocksBetween(t *testing.T) {
	repo, mock := newScheduleRepo(t)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	blockID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "start_date", "end_date", "reason", "created_at"}).
		AddRow(blockID, from.Add(12*time.Hour), from.Add(13*time.Hour), "lunch", from)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM availability_blocks`)).
		WithArgs(from, to).
		WillReturnRows(rows)

	blocks, err := repo.ListBlocksBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, blockID, blocks[0].ID)
	assert.Equal(t, "lunch", blocks[0].Reason)
}

func TestCreateBlock(t *testing.T) {
	repo, mock := newScheduleRepo(t)
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	block := &db.AvailabilityBlock{
		ID:        uuid.New(),
		StartDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		Reason:    "vacation",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO availability_blocks`)).
		WithArgs(block.ID, block.StartDate, block.EndDate, block.Reason).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	err := repo.CreateBlock(context.Background(), block)
	require.NoError(t, err)
	assert.Equal(t, createdAt, block.CreatedAt)
}

func TestDeleteBlockNotFound(t *testing.T) {
	repo, mock := newScheduleRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM availability_blocks WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteBlock(context.Background(), id)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteBlock(t *testing.T) {
	repo, mock := newScheduleRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM availability_blocks WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteBlock(context.Background(), id))
}
