package entities

// MeetingEmailData carries the fields rendered into meeting notification
// emails and SMS messages.
type MeetingEmailData struct {
	AttendeeName  string
	Title         string
	WhenFormatted string
	Duration      int
	MeetURL       string
}
