package entities

import (
	"time"

	"github.com/google/uuid"
)

// BookingRequest reserves one slot for a lead or a customer (exactly one).
// Date is "YYYY-MM-DD" and StartTime "HH:mm" in the operator's working-hours
// clock; Timezone is the attendee's stated zone, recorded on the meeting.
type BookingRequest struct {
	LeadID     *uuid.UUID
	CustomerID *uuid.UUID
	Date       string
	StartTime  string
	Duration   int
	Timezone   string
}

// RescheduleRequest moves an existing meeting. Duration nil keeps the
// meeting's current duration.
type RescheduleRequest struct {
	Date      string
	StartTime string
	Duration  *int
}

// BookingConfirmation is returned from book and reschedule.
type BookingConfirmation struct {
	MeetingID   uuid.UUID `json:"meeting_id"`
	EventID     string    `json:"event_id"`
	MeetURL     string    `json:"meet_url"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Duration    int       `json:"duration"`
}
