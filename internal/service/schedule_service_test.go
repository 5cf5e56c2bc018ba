package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"
	"meetbook/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleService(t *testing.T) (*ScheduleService, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewScheduleService(repository.NewScheduleRepository(database), nil), mock
}

func TestUpdateWorkingHoursValidation(t *testing.T) {
	svc, _ := newScheduleService(t)
	ctx := context.Background()

	err := svc.UpdateWorkingHours(ctx, db.WorkingHours{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00", IsEnabled: true})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = svc.UpdateWorkingHours(ctx, db.WorkingHours{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00", IsEnabled: true})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = svc.UpdateWorkingHours(ctx, db.WorkingHours{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00", IsEnabled: true})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = svc.UpdateWorkingHours(ctx, db.WorkingHours{DayOfWeek: 1, StartTime: "25:00", EndTime: "17:00", IsEnabled: true})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateWorkingHoursDisabledDaySkipsClockCheck(t *testing.T) {
	svc, mock := newScheduleService(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO working_hours`)).
		WithArgs(0, "", "", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.UpdateWorkingHours(context.Background(), db.WorkingHours{DayOfWeek: 0, IsEnabled: false})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBlockValidatesRange(t *testing.T) {
	svc, _ := newScheduleService(t)
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateBlock(context.Background(), start, start, "empty range")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateBlock(context.Background(), start, start.Add(-time.Hour), "inverted range")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateBlockPersists(t *testing.T) {
	svc, mock := newScheduleService(t)
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO availability_blocks`)).
		WithArgs(sqlmock.AnyArg(), start, end, "vacation").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	block, err := svc.CreateBlock(context.Background(), start, end, "vacation")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, block.ID)
	assert.Equal(t, createdAt, block.CreatedAt)
}
