package entities

// TimeSlot is one candidate booking window on one day. Start/End are "HH:mm"
// in the operator's timezone.
type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// DaySlots groups the candidate slots of a single calendar day.
type DaySlots struct {
	Date  string     `json:"date"`
	Times []TimeSlot `json:"times"`
}

type AvailabilityRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Duration  int    `json:"duration"`
}

type AvailabilityResponse struct {
	Slots    []DaySlots `json:"slots"`
	Timezone string     `json:"timezone"`
}
