package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned by the no-op adapter for every mutation.
// Callers treat it like any other sync failure: log and fall back.
var ErrNotConfigured = errors.New("calendar integration not configured")

// Event is the external calendar's view of a created or updated event.
type Event struct {
	EventID  string
	MeetURL  string
	HTMLLink string
}

// EventDetails describes the event to create or the fields to patch. Zero
// values are left untouched on update.
type EventDetails struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeEmail string
	AttendeeName  string
	Timezone      string
}

// BusyInterval is one externally-reported busy window, half-open.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// SyncAdapter wraps a third-party calendar API. The local meeting store stays
// the source of truth; every call here is best-effort from the caller's point
// of view. Implementations must honor ctx cancellation.
type SyncAdapter interface {
	CreateEvent(ctx context.Context, details EventDetails) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, details EventDetails) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error)
}
