package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"meetbook/internal/cache"
	"meetbook/internal/calendar"
	"meetbook/internal/db"
	"meetbook/internal/entities"
	apperrors "meetbook/internal/errors"
	"meetbook/internal/logger"
	"meetbook/internal/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService owns the write path: book, reschedule, cancel, and
// administrative status updates. It re-validates every booking against the
// same constraint sources the read path uses, then lets the meeting store's
// transactional insert settle races.
type BookingService struct {
	Meetings MeetingStore
	Schedule ScheduleStore
	Contacts ContactStore
	Calendar calendar.SyncAdapter
	Notifier MeetingNotifier
	Cache    *cache.AvailabilityCache
	Location *time.Location
	Now      func() time.Time
}

func NewBookingService(meetings MeetingStore, schedule ScheduleStore, contacts ContactStore, adapter calendar.SyncAdapter, notifier MeetingNotifier, availabilityCache *cache.AvailabilityCache, loc *time.Location) *BookingService {
	return &BookingService{
		Meetings: meetings,
		Schedule: schedule,
		Contacts: contacts,
		Calendar: adapter,
		Notifier: notifier,
		Cache:    availabilityCache,
		Location: loc,
		Now:      time.Now,
	}
}

// attendee is a resolved lead or customer.
type attendee struct {
	leadID *uuid.UUID
	custID *uuid.UUID
	name   string
	email  string
	phone  string
}

// syncOutcome is the tagged result of an external calendar attempt. The
// placeholder fallback is an explicit branch on Synced, not an exception
// path.
type syncOutcome struct {
	Synced  bool
	EventID string
	MeetURL string
	Reason  string
}

func (s *BookingService) Book(ctx context.Context, req entities.BookingRequest) (*entities.BookingConfirmation, error) {
	att, err := s.resolveAttendee(ctx, req.LeadID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if req.Duration < minDurationMinutes || req.Duration > maxDurationMinutes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("duration must be between %d and %d minutes", minDurationMinutes, maxDurationMinutes))
	}

	// The attendee's timezone is recorded on the meeting, but scheduling math
	// runs in the operator's working-hours clock.
	scheduledAt, err := s.parseSlotStart(req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}
	scheduledEnd := scheduledAt.Add(time.Duration(req.Duration) * time.Minute)

	if err := s.validateSlot(ctx, scheduledAt, scheduledEnd, uuid.Nil); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Discovery Call with %s", att.name)
	sync := s.createCalendarEvent(ctx, calendar.EventDetails{
		Summary:       title,
		Description:   fmt.Sprintf("%d minute discovery call booked via the website.", req.Duration),
		Start:         scheduledAt,
		End:           scheduledEnd,
		AttendeeEmail: att.email,
		AttendeeName:  att.name,
		Timezone:      req.Timezone,
	})

	now := s.Now()
	meeting := &db.Meeting{
		ID:              uuid.New(),
		LeadID:          att.leadID,
		CustomerID:      att.custID,
		EventID:         sync.EventID,
		MeetURL:         sync.MeetURL,
		Title:           title,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.Duration,
		Timezone:        req.Timezone,
		Status:          db.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Meetings.CreateMeeting(ctx, meeting); err != nil {
		if sync.Synced {
			s.deleteCalendarEvent(ctx, sync.EventID)
		}
		return nil, err
	}

	if att.leadID != nil {
		if err := s.Contacts.UpdateLeadStatus(ctx, *att.leadID, db.LeadStatusMeetingScheduled); err != nil {
			logger.Get().Warn("failed to advance lead status",
				zap.String("lead_id", att.leadID.String()), zap.Error(err))
		}
	}

	s.Cache.Bump(ctx)
	if s.Notifier != nil {
		s.Notifier.MeetingBooked(*meeting, att.name, att.email)
	}

	return &entities.BookingConfirmation{
		MeetingID:   meeting.ID,
		EventID:     meeting.EventID,
		MeetURL:     meeting.MeetURL,
		ScheduledAt: meeting.ScheduledAt,
		Duration:    meeting.DurationMinutes,
	}, nil
}

func (s *BookingService) Reschedule(ctx context.Context, meetingID uuid.UUID, req entities.RescheduleRequest) (*entities.BookingConfirmation, error) {
	meeting, err := s.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != db.StatusScheduled {
		return nil, fmt.Errorf("%w: meeting %s is %s", apperrors.ErrConflict, meetingID, meeting.Status)
	}

	duration := meeting.DurationMinutes
	if req.Duration != nil {
		duration = *req.Duration
	}
	if duration < minDurationMinutes || duration > maxDurationMinutes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("duration must be between %d and %d minutes", minDurationMinutes, maxDurationMinutes))
	}

	scheduledAt, err := s.parseSlotStart(req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}
	scheduledEnd := scheduledAt.Add(time.Duration(duration) * time.Minute)

	// Same conflict predicate as booking, with the meeting excluded from its
	// own overlap check.
	if err := s.validateSlot(ctx, scheduledAt, scheduledEnd, meeting.ID); err != nil {
		return nil, err
	}

	meetURL := meeting.MeetURL
	if !calendar.IsPlaceholderEventID(meeting.EventID) {
		sync := s.updateCalendarEvent(ctx, meeting.EventID, calendar.EventDetails{
			Start:    scheduledAt,
			End:      scheduledEnd,
			Timezone: meeting.Timezone,
		})
		if sync.Synced && sync.MeetURL != "" {
			meetURL = sync.MeetURL
		}
	}

	if err := s.Meetings.UpdateSchedule(ctx, meeting.ID, scheduledAt, duration, meeting.EventID, meetURL); err != nil {
		return nil, err
	}

	s.Cache.Bump(ctx)
	if s.Notifier != nil {
		updated := *meeting
		updated.ScheduledAt = scheduledAt
		updated.DurationMinutes = duration
		updated.MeetURL = meetURL
		s.notifyAttendee(ctx, updated, s.Notifier.MeetingRescheduled)
	}

	return &entities.BookingConfirmation{
		MeetingID:   meeting.ID,
		EventID:     meeting.EventID,
		MeetURL:     meetURL,
		ScheduledAt: scheduledAt,
		Duration:    duration,
	}, nil
}

func (s *BookingService) Cancel(ctx context.Context, meetingID uuid.UUID) (*db.Meeting, error) {
	meeting, err := s.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	switch meeting.Status {
	case db.StatusCancelled:
		return meeting, nil
	case db.StatusScheduled:
	default:
		return nil, fmt.Errorf("%w: meeting %s is %s", apperrors.ErrConflict, meetingID, meeting.Status)
	}

	// Placeholder ids were never synced; real ids get one best-effort delete.
	// Local cancellation proceeds either way.
	if !calendar.IsPlaceholderEventID(meeting.EventID) {
		s.deleteCalendarEvent(ctx, meeting.EventID)
	}

	ok, err := s.Meetings.UpdateStatus(ctx, meetingID, db.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: meeting %s is not cancellable", apperrors.ErrConflict, meetingID)
	}
	meeting.Status = db.StatusCancelled

	s.Cache.Bump(ctx)
	if s.Notifier != nil {
		s.notifyAttendee(ctx, *meeting, s.Notifier.MeetingCancelled)
	}
	return meeting, nil
}

// UpdateMeetingStatus applies an administrative transition. Only SCHEDULED
// meetings move, and only to a terminal status.
func (s *BookingService) UpdateMeetingStatus(ctx context.Context, meetingID uuid.UUID, status string) (*db.Meeting, error) {
	switch status {
	case db.StatusCompleted, db.StatusCancelled, db.StatusNoShow:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("status %q is not a valid transition target", status))
	}

	meeting, err := s.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	ok, err := s.Meetings.UpdateStatus(ctx, meetingID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: meeting %s is %s", apperrors.ErrConflict, meetingID, meeting.Status)
	}
	meeting.Status = status
	s.Cache.Bump(ctx)
	return meeting, nil
}

func (s *BookingService) resolveAttendee(ctx context.Context, leadID, customerID *uuid.UUID) (*attendee, error) {
	switch {
	case leadID != nil && customerID != nil:
		return nil, apperrors.InvalidInput("provide either lead_id or customer_id, not both")
	case leadID != nil:
		lead, err := s.Contacts.GetLead(ctx, *leadID)
		if err != nil {
			return nil, err
		}
		return &attendee{leadID: leadID, name: lead.Name, email: lead.Email, phone: lead.Phone}, nil
	case customerID != nil:
		customer, err := s.Contacts.GetCustomer(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		return &attendee{custID: customerID, name: customer.Name, email: customer.Email, phone: customer.Phone}, nil
	default:
		return nil, apperrors.InvalidInput("either lead_id or customer_id is required")
	}
}

func (s *BookingService) parseSlotStart(date, startTime string) (time.Time, error) {
	day, err := timeutil.ParseDate(date, s.Location)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(err.Error())
	}
	startMin, err := timeutil.ParseClock(startTime)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(err.Error())
	}
	return timeutil.At(day, startMin), nil
}

// validateSlot re-runs the read path's predicates against fresh store state:
// working hours enabled and containing the window, no overlapping
// non-cancelled meeting, no overlapping block, not in the past. exclude
// removes one meeting from the overlap check for reschedules.
func (s *BookingService) validateSlot(ctx context.Context, start, end time.Time, exclude uuid.UUID) error {
	if start.Before(s.Now()) {
		return apperrors.SlotUnavailable("slot is in the past")
	}

	wh, err := s.Schedule.GetWorkingHoursForDay(ctx, int(start.Weekday()))
	if err != nil {
		return fmt.Errorf("load working hours: %w", err)
	}
	if wh == nil || !wh.IsEnabled {
		return apperrors.SlotUnavailable("no working hours for that day")
	}
	whStart, err := timeutil.ParseClock(wh.StartTime)
	if err != nil {
		return fmt.Errorf("parse working hours start: %w", err)
	}
	whEnd, err := timeutil.ParseClock(wh.EndTime)
	if err != nil {
		return fmt.Errorf("parse working hours end: %w", err)
	}
	dayStart := timeutil.At(start, whStart)
	dayEnd := timeutil.At(start, whEnd)
	if start.Before(dayStart) || end.After(dayEnd) {
		return apperrors.SlotUnavailable("requested window is outside working hours")
	}

	meetings, err := s.Meetings.ListBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load meetings: %w", err)
	}
	blocks, err := s.Schedule.ListBlocksBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load availability blocks: %w", err)
	}

	conflicts := ConflictSet{Meetings: meetings, Blocks: blocks, Now: s.Now()}
	reason, conflict := conflicts.Conflicts(timeutil.Window{Start: start, End: end}, func(m db.Meeting) bool {
		return exclude != uuid.Nil && m.ID == exclude
	})
	if conflict {
		return apperrors.SlotUnavailable(reason)
	}
	return nil
}

// createCalendarEvent attempts the external create under a timeout. Any
// failure, including the unconfigured adapter, yields an unsynced outcome
// carrying placeholder identifiers; booking never fails because the provider
// is unreachable.
func (s *BookingService) createCalendarEvent(ctx context.Context, details calendar.EventDetails) syncOutcome {
	callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	ev, err := s.Calendar.CreateEvent(callCtx, details)
	if err != nil {
		if !stderrors.Is(err, calendar.ErrNotConfigured) {
			logger.Get().Warn("calendar event creation failed, using placeholders", zap.Error(err))
		}
		return syncOutcome{
			Synced:  false,
			EventID: calendar.PlaceholderEventID(),
			MeetURL: calendar.PlaceholderMeetURL(),
			Reason:  err.Error(),
		}
	}

	out := syncOutcome{Synced: true, EventID: ev.EventID, MeetURL: ev.MeetURL}
	if out.MeetURL == "" {
		// Provider created the event but returned no video link.
		out.MeetURL = calendar.PlaceholderMeetURL()
	}
	return out
}

func (s *BookingService) updateCalendarEvent(ctx context.Context, eventID string, details calendar.EventDetails) syncOutcome {
	callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	ev, err := s.Calendar.UpdateEvent(callCtx, eventID, details)
	if err != nil {
		if !stderrors.Is(err, calendar.ErrNotConfigured) {
			logger.Get().Warn("calendar event update failed, keeping existing identifiers",
				zap.String("event_id", eventID), zap.Error(err))
		}
		return syncOutcome{Synced: false, EventID: eventID, Reason: err.Error()}
	}
	return syncOutcome{Synced: true, EventID: ev.EventID, MeetURL: ev.MeetURL}
}

func (s *BookingService) deleteCalendarEvent(ctx context.Context, eventID string) {
	callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	if err := s.Calendar.DeleteEvent(callCtx, eventID); err != nil {
		if !stderrors.Is(err, calendar.ErrNotConfigured) {
			logger.Get().Warn("calendar event deletion failed",
				zap.String("event_id", eventID), zap.Error(err))
		}
	}
}

// notifyAttendee resolves the meeting's contact and fires the notification.
// Lookup failures only cost the notification.
func (s *BookingService) notifyAttendee(ctx context.Context, meeting db.Meeting, send func(db.Meeting, string, string)) {
	var name, email string
	switch {
	case meeting.LeadID != nil:
		lead, err := s.Contacts.GetLead(ctx, *meeting.LeadID)
		if err != nil {
			logger.Get().Warn("attendee lookup for notification failed", zap.Error(err))
			return
		}
		name, email = lead.Name, lead.Email
	case meeting.CustomerID != nil:
		customer, err := s.Contacts.GetCustomer(ctx, *meeting.CustomerID)
		if err != nil {
			logger.Get().Warn("attendee lookup for notification failed", zap.Error(err))
			return
		}
		name, email = customer.Name, customer.Email
	default:
		return
	}
	send(meeting, name, email)
}
