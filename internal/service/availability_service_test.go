package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetbook/internal/calendar"
	"meetbook/internal/db"
	"meetbook/internal/entities"
	apperrors "meetbook/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type availabilityFixture struct {
	svc      *AvailabilityService
	schedule *mockScheduleStore
	meetings *mockMeetingStore
	adapter  *mockAdapter
}

func newAvailabilityFixture() *availabilityFixture {
	f := &availabilityFixture{
		schedule: &mockScheduleStore{},
		meetings: &mockMeetingStore{},
		adapter:  &mockAdapter{},
	}
	f.svc = NewAvailabilityService(f.schedule, f.meetings, f.adapter, nil, time.UTC)
	f.svc.Now = func() time.Time { return testNow }
	return f
}

func mondayHours() []db.WorkingHours {
	return []db.WorkingHours{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsEnabled: true},
	}
}

func slotByStart(t *testing.T, day entities.DaySlots, start string) entities.TimeSlot {
	t.Helper()
	for _, slot := range day.Times {
		if slot.Start == start {
			return slot
		}
	}
	t.Fatalf("no slot starting at %s on %s", start, day.Date)
	return entities.TimeSlot{}
}

func TestGetAvailabilityAnnotatesConflicts(t *testing.T) {
	f := newAvailabilityFixture()
	f.schedule.On("GetWorkingHours", mock.Anything).Return(mondayHours(), nil)
	f.meetings.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.Meeting{{
			ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			Status:          db.StatusScheduled,
		}}, nil)
	f.schedule.On("ListBlocksBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.AvailabilityBlock{{
			StartDate: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
		}}, nil)
	f.adapter.On("FreeBusy", mock.Anything, mock.Anything, mock.Anything).
		Return([]calendar.BusyInterval(nil), nil)

	resp, err := f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 30,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "UTC", resp.Timezone)

	day := resp.Slots[0]
	assert.True(t, slotByStart(t, day, "09:00").Available)
	assert.False(t, slotByStart(t, day, "10:00").Available, "booked meeting blocks its slot")
	assert.True(t, slotByStart(t, day, "10:30").Available, "only the overlapping slot is blocked")
	assert.False(t, slotByStart(t, day, "12:00").Available, "block covers 12:00")
	assert.False(t, slotByStart(t, day, "12:30").Available, "block covers 12:30")
	assert.True(t, slotByStart(t, day, "13:00").Available)
}

func TestGetAvailabilityExternalBusyBlocksSlot(t *testing.T) {
	f := newAvailabilityFixture()
	f.schedule.On("GetWorkingHours", mock.Anything).Return(mondayHours(), nil)
	f.meetings.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.Meeting(nil), nil)
	f.schedule.On("ListBlocksBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.AvailabilityBlock(nil), nil)
	f.adapter.On("FreeBusy", mock.Anything, mock.Anything, mock.Anything).
		Return([]calendar.BusyInterval{{
			Start: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		}}, nil)

	resp, err := f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 60,
	})
	require.NoError(t, err)
	day := resp.Slots[0]
	assert.False(t, slotByStart(t, day, "14:00").Available)
	assert.True(t, slotByStart(t, day, "15:00").Available)
}

func TestGetAvailabilityFreeBusyFailureIsNonFatal(t *testing.T) {
	f := newAvailabilityFixture()
	f.schedule.On("GetWorkingHours", mock.Anything).Return(mondayHours(), nil)
	f.meetings.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.Meeting(nil), nil)
	f.schedule.On("ListBlocksBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.AvailabilityBlock(nil), nil)
	f.adapter.On("FreeBusy", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("googleapi: 503"))

	resp, err := f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 30,
	})
	require.NoError(t, err, "external calendar outage must not break the read path")
	assert.True(t, slotByStart(t, resp.Slots[0], "09:00").Available)
}

func TestGetAvailabilityPastSlotsUnavailable(t *testing.T) {
	f := newAvailabilityFixture()
	f.schedule.On("GetWorkingHours", mock.Anything).
		Return([]db.WorkingHours{{DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00", IsEnabled: true}}, nil)
	f.meetings.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.Meeting(nil), nil)
	f.schedule.On("ListBlocksBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.AvailabilityBlock(nil), nil)
	f.adapter.On("FreeBusy", mock.Anything, mock.Anything, mock.Anything).
		Return([]calendar.BusyInterval(nil), nil)

	// Sunday 2026-03-01; the fixed clock is 12:00 that day.
	resp, err := f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-01", EndDate: "2026-03-01", Duration: 30,
	})
	require.NoError(t, err)
	day := resp.Slots[0]
	assert.False(t, slotByStart(t, day, "11:30").Available)
	assert.True(t, slotByStart(t, day, "12:00").Available)
}

func TestGetAvailabilityValidation(t *testing.T) {
	f := newAvailabilityFixture()

	_, err := f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 5,
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 600,
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "not-a-date", EndDate: "2026-03-02", Duration: 30,
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-05", EndDate: "2026-03-02", Duration: 30,
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestGetAvailabilityDisabledWeekIsAllEmpty(t *testing.T) {
	f := newAvailabilityFixture()
	f.schedule.On("GetWorkingHours", mock.Anything).Return([]db.WorkingHours(nil), nil)
	f.meetings.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.Meeting(nil), nil)
	f.schedule.On("ListBlocksBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]db.AvailabilityBlock(nil), nil)
	f.adapter.On("FreeBusy", mock.Anything, mock.Anything, mock.Anything).
		Return([]calendar.BusyInterval(nil), nil)

	resp, err := f.svc.GetAvailability(context.Background(), entities.AvailabilityRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-08", Duration: 30,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 7)
	for _, day := range resp.Slots {
		assert.Empty(t, day.Times)
	}
}
