package api

import "time"

// Booking
type BookMeetingRequest struct {
	LeadID     string `json:"lead_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	Duration   int    `json:"duration"`
	Timezone   string `json:"timezone"`
}

type RescheduleMeetingRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Duration  *int   `json:"duration,omitempty"`
}

type MeetingResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	MeetURL     string    `json:"meet_url"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Duration    int       `json:"duration"`
	Status      string    `json:"status"`
}

// Admin
type WorkingHoursRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsEnabled bool   `json:"is_enabled"`
}

type CreateBlockRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty"`
}

type UpdateMeetingStatusRequest struct {
	Status string `json:"status"`
}
