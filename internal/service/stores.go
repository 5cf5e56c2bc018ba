package service

import (
	"context"
	"time"

	"meetbook/internal/db"
	"meetbook/internal/entities"

	"github.com/google/uuid"
)

// ScheduleStore is the working-hours and blackout-range constraint source.
type ScheduleStore interface {
	GetWorkingHours(ctx context.Context) ([]db.WorkingHours, error)
	GetWorkingHoursForDay(ctx context.Context, dayOfWeek int) (*db.WorkingHours, error)
	ListBlocksBetween(ctx context.Context, from, to time.Time) ([]db.AvailabilityBlock, error)
}

// MeetingStore persists reservations; it is the source of truth for booking
// state.
type MeetingStore interface {
	CreateMeeting(ctx context.Context, m *db.Meeting) error
	GetMeeting(ctx context.Context, id uuid.UUID) (*db.Meeting, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]db.Meeting, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, scheduledAt time.Time, durationMinutes int, eventID, meetURL string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
}

// ContactStore resolves attendees and advances lead statuses.
type ContactStore interface {
	GetLead(ctx context.Context, id uuid.UUID) (*db.Lead, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*db.Customer, error)
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) error
}

// MeetingNotifier sends best-effort attendee notifications. Implementations
// must never block the booking path on delivery.
type MeetingNotifier interface {
	MeetingBooked(m db.Meeting, attendeeName, attendeeEmail string)
	MeetingRescheduled(m db.Meeting, attendeeName, attendeeEmail string)
	MeetingCancelled(m db.Meeting, attendeeName, attendeeEmail string)
	MeetingReminder(data entities.MeetingEmailData, email, phone string)
}
