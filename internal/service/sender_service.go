package service

import (
	"fmt"
	"time"

	"meetbook/internal/db"
	"meetbook/internal/entities"
	"meetbook/internal/logger"

	"go.uber.org/zap"
)

// SenderService composes and sends attendee notifications. Every send runs in
// a goroutine; delivery failures are logged, never surfaced to the booking
// path.
type SenderService struct {
	Location *time.Location
}

func NewSenderService(loc *time.Location) *SenderService {
	return &SenderService{Location: loc}
}

func (s *SenderService) MeetingBooked(m db.Meeting, attendeeName, attendeeEmail string) {
	when := m.ScheduledAt.In(s.Location).Format("02 Jan 2006 15:04 MST")
	subject := fmt.Sprintf("Your call is booked - %s", when)
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nYour %d minute call is confirmed.\n\n"+
			"When: %s\n"+
			"Join: %s\n\n"+
			"Need to change it? Reply to this email or use the reschedule link on the site.",
		attendeeName, m.DurationMinutes, when, m.MeetURL,
	)
	s.deliverEmail(m, attendeeName, attendeeEmail, subject, plainBody)
}

func (s *SenderService) MeetingRescheduled(m db.Meeting, attendeeName, attendeeEmail string) {
	when := m.ScheduledAt.In(s.Location).Format("02 Jan 2006 15:04 MST")
	subject := fmt.Sprintf("Your call was moved to %s", when)
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nYour call has a new time.\n\n"+
			"When: %s\n"+
			"Duration: %d minutes\n"+
			"Join: %s",
		attendeeName, when, m.DurationMinutes, m.MeetURL,
	)
	s.deliverEmail(m, attendeeName, attendeeEmail, subject, plainBody)
}

func (s *SenderService) MeetingCancelled(m db.Meeting, attendeeName, attendeeEmail string) {
	when := m.ScheduledAt.In(s.Location).Format("02 Jan 2006 15:04 MST")
	subject := "Your call was cancelled"
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nYour call scheduled for %s has been cancelled.\n\n"+
			"Feel free to book a new time on the site whenever it suits you.",
		attendeeName, when,
	)
	s.deliverEmail(m, attendeeName, attendeeEmail, subject, plainBody)
}

func (s *SenderService) MeetingReminder(data entities.MeetingEmailData, email, phone string) {
	subject := fmt.Sprintf("Reminder: %s at %s", data.Title, data.WhenFormatted)
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nA reminder about your upcoming call.\n\n"+
			"When: %s\n"+
			"Duration: %d minutes\n"+
			"Join: %s",
		data.AttendeeName, data.WhenFormatted, data.Duration, data.MeetURL,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>A reminder about your upcoming call.</p><p><b>When:</b> %s<br><b>Duration:</b> %d minutes<br><b>Join:</b> <a href=%q>%s</a></p>",
		data.AttendeeName, data.WhenFormatted, data.Duration, data.MeetURL, data.MeetURL,
	)

	if email != "" {
		go func() {
			if err := SendEmailWithSendGrid(email, data.AttendeeName, subject, plainBody, htmlBody); err != nil {
				logger.Get().Warn("reminder email failed", zap.String("to", email), zap.Error(err))
			}
		}()
	}
	if phone != "" {
		sms := fmt.Sprintf("Reminder: %s at %s. Join: %s", data.Title, data.WhenFormatted, data.MeetURL)
		go func() {
			if err := SendSMS(phone, sms); err != nil {
				logger.Get().Warn("reminder SMS failed", zap.String("to", phone), zap.Error(err))
			}
		}()
	}
}

func (s *SenderService) deliverEmail(m db.Meeting, attendeeName, attendeeEmail, subject, plainBody string) {
	if attendeeEmail == "" {
		return
	}
	htmlBody := "<p>" + plainBody + "</p>"
	meetingID := m.ID.String()
	go func() {
		if err := SendEmailWithSendGrid(attendeeEmail, attendeeName, subject, plainBody, htmlBody); err != nil {
			logger.Get().Warn("meeting email failed",
				zap.String("meeting_id", meetingID), zap.String("to", attendeeEmail), zap.Error(err))
		}
	}()
}
