package service

import (
	"context"
	"fmt"
	"time"

	"meetbook/internal/entities"
	"meetbook/internal/logger"
	"meetbook/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reminderWindow is how far ahead the sweep looks for upcoming meetings.
const reminderWindow = 24 * time.Hour

// JobService runs the periodic reminder sweep.
type JobService struct {
	Repo     *repository.JobRepository
	Notifier MeetingNotifier
	Location *time.Location
}

func NewJobService(repo *repository.JobRepository, notifier MeetingNotifier, loc *time.Location) *JobService {
	return &JobService{Repo: repo, Notifier: notifier, Location: loc}
}

// SendMeetingReminders notifies attendees of SCHEDULED meetings starting
// within the reminder window, then marks them so they are never re-sent.
// Per-meeting notification failures are logged and do not block the sweep.
func (s *JobService) SendMeetingReminders(ctx context.Context) error {
	reminders, err := s.Repo.GetMeetingsDueForReminder(ctx, reminderWindow)
	if err != nil {
		return fmt.Errorf("reminder sweep: %w", err)
	}
	if len(reminders) == 0 {
		return nil
	}

	logger.Get().Info("sending meeting reminders", zap.Int("count", len(reminders)))

	sent := make([]uuid.UUID, 0, len(reminders))
	for _, rem := range reminders {
		data := entities.MeetingEmailData{
			AttendeeName:  rem.AttendeeName,
			Title:         rem.Meeting.Title,
			WhenFormatted: rem.Meeting.ScheduledAt.In(s.Location).Format("02 Jan 2006 15:04 MST"),
			Duration:      rem.Meeting.DurationMinutes,
			MeetURL:       rem.Meeting.MeetURL,
		}
		s.Notifier.MeetingReminder(data, rem.AttendeeEmail, rem.AttendeePhone)
		sent = append(sent, rem.Meeting.ID)
	}

	if err := s.Repo.MarkRemindersSent(ctx, sent); err != nil {
		return fmt.Errorf("reminder sweep: %w", err)
	}
	return nil
}
