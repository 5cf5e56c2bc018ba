package calendar

import (
	"context"
	"time"
)

// NoopAdapter stands in when no calendar integration is configured. Mutations
// report ErrNotConfigured so orchestrators take their placeholder fallback;
// free/busy reports nothing, so external busy times never constrain
// availability.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (*NoopAdapter) CreateEvent(ctx context.Context, details EventDetails) (*Event, error) {
	return nil, ErrNotConfigured
}

func (*NoopAdapter) UpdateEvent(ctx context.Context, eventID string, details EventDetails) (*Event, error) {
	return nil, ErrNotConfigured
}

func (*NoopAdapter) DeleteEvent(ctx context.Context, eventID string) error {
	return ErrNotConfigured
}

func (*NoopAdapter) FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error) {
	return nil, nil
}
