package db

import (
	"time"

	"github.com/google/uuid"
)

// Meeting statuses. SCHEDULED is the only non-terminal state.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
)

// LeadStatusMeetingScheduled is set on a lead when a booking made on its
// behalf succeeds.
const LeadStatusMeetingScheduled = "MEETING_SCHEDULED"

// WorkingHours is one recurring weekly availability window. One row per
// weekday (0 = Sunday). StartTime/EndTime are "HH:mm" in the operator's
// timezone; StartTime < EndTime whenever IsEnabled.
type WorkingHours struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	IsEnabled bool
}

// AvailabilityBlock is an admin-created blackout range, inclusive start,
// exclusive end.
type AvailabilityBlock struct {
	ID        uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedAt time.Time
}

// Meeting is a booked discovery call. At most one of LeadID/CustomerID is
// set. Rows are never deleted; cancellation flips Status.
type Meeting struct {
	ID              uuid.UUID
	LeadID          *uuid.UUID
	CustomerID      *uuid.UUID
	EventID         string
	MeetURL         string
	Title           string
	ScheduledAt     time.Time
	DurationMinutes int
	Timezone        string
	Status          string
	ReminderSent    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Lead is a prospective client from the intake flow.
type Lead struct {
	ID     uuid.UUID
	Name   string
	Email  string
	Phone  string
	Status string
}

// Customer is an existing client.
type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}
