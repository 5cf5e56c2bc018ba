package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleAdapter syncs meetings into a Google Calendar via a service account.
type GoogleAdapter struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleAdapter builds the adapter from GOOGLE_CALENDAR_ID and
// GOOGLE_CALENDAR_CREDENTIALS_FILE. Returns an error when either is missing;
// callers fall back to the no-op adapter.
func NewGoogleAdapter(ctx context.Context) (*GoogleAdapter, error) {
	calendarID := os.Getenv("GOOGLE_CALENDAR_ID")
	credentialsFile := os.Getenv("GOOGLE_CALENDAR_CREDENTIALS_FILE")
	if calendarID == "" || credentialsFile == "" {
		return nil, ErrNotConfigured
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &GoogleAdapter{svc: svc, calendarID: calendarID}, nil
}

func (g *GoogleAdapter) CreateEvent(ctx context.Context, details EventDetails) (*Event, error) {
	ev := &gcal.Event{
		Summary:     details.Summary,
		Description: details.Description,
		Start: &gcal.EventDateTime{
			DateTime: details.Start.Format(time.RFC3339),
			TimeZone: details.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: details.End.Format(time.RFC3339),
			TimeZone: details.Timezone,
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
	if details.AttendeeEmail != "" {
		ev.Attendees = []*gcal.EventAttendee{{
			Email:       details.AttendeeEmail,
			DisplayName: details.AttendeeName,
		}}
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return &Event{
		EventID:  created.Id,
		MeetURL:  created.HangoutLink,
		HTMLLink: created.HtmlLink,
	}, nil
}

func (g *GoogleAdapter) UpdateEvent(ctx context.Context, eventID string, details EventDetails) (*Event, error) {
	patch := &gcal.Event{}
	if details.Summary != "" {
		patch.Summary = details.Summary
	}
	if details.Description != "" {
		patch.Description = details.Description
	}
	if !details.Start.IsZero() {
		patch.Start = &gcal.EventDateTime{
			DateTime: details.Start.Format(time.RFC3339),
			TimeZone: details.Timezone,
		}
	}
	if !details.End.IsZero() {
		patch.End = &gcal.EventDateTime{
			DateTime: details.End.Format(time.RFC3339),
			TimeZone: details.Timezone,
		}
	}
	if details.AttendeeEmail != "" {
		patch.Attendees = []*gcal.EventAttendee{{
			Email:       details.AttendeeEmail,
			DisplayName: details.AttendeeName,
		}}
	}

	updated, err := g.svc.Events.Patch(g.calendarID, eventID, patch).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("patch event %s: %w", eventID, err)
	}

	return &Event{
		EventID:  updated.Id,
		MeetURL:  updated.HangoutLink,
		HTMLLink: updated.HtmlLink,
	}, nil
}

func (g *GoogleAdapter) DeleteEvent(ctx context.Context, eventID string) error {
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

func (g *GoogleAdapter) FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error) {
	resp, err := g.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, nil
	}

	var busy []BusyInterval
	for _, period := range cal.Busy {
		from, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", period.Start, err)
		}
		to, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", period.End, err)
		}
		busy = append(busy, BusyInterval{Start: from, End: to})
	}
	return busy, nil
}
