package service

import (
	"time"

	"meetbook/internal/calendar"
	"meetbook/internal/db"
	"meetbook/internal/entities"
	"meetbook/internal/timeutil"
)

// GenerateSlots emits the candidate slots for every calendar day from
// rangeStart through rangeEnd inclusive. Days whose working hours are missing
// or disabled get an empty slot list. Slots step by exactly duration minutes
// from the working window's start; a slot that would overrun the window is not
// generated. Availability is not determined here.
func GenerateSlots(rangeStart, rangeEnd time.Time, duration int, hours map[int]db.WorkingHours) []entities.DaySlots {
	var days []entities.DaySlots
	timeutil.EachDay(rangeStart, rangeEnd, func(day time.Time) {
		ds := entities.DaySlots{
			Date:  day.Format("2006-01-02"),
			Times: []entities.TimeSlot{},
		}

		wh, ok := hours[int(day.Weekday())]
		if !ok || !wh.IsEnabled {
			days = append(days, ds)
			return
		}

		startMin, err := timeutil.ParseClock(wh.StartTime)
		if err != nil {
			days = append(days, ds)
			return
		}
		endMin, err := timeutil.ParseClock(wh.EndTime)
		if err != nil {
			days = append(days, ds)
			return
		}

		for s := startMin; s+duration <= endMin; s += duration {
			ds.Times = append(ds.Times, entities.TimeSlot{
				Start: timeutil.FormatClock(s),
				End:   timeutil.FormatClock(s + duration),
			})
		}
		days = append(days, ds)
	})
	return days
}

// ConflictSet holds everything a candidate slot is tested against. All
// interval tests are half-open: start1 < end2 && end1 > start2.
type ConflictSet struct {
	Meetings []db.Meeting
	Blocks   []db.AvailabilityBlock
	Busy     []calendar.BusyInterval
	Now      time.Time
}

// Conflicts reports whether the window collides with any constraint source,
// and names the first failing one. A meeting matching exclude is skipped so a
// reschedule does not conflict with itself.
func (c ConflictSet) Conflicts(win timeutil.Window, exclude func(db.Meeting) bool) (string, bool) {
	if win.Start.Before(c.Now) {
		return "slot is in the past", true
	}
	for _, m := range c.Meetings {
		if m.Status == db.StatusCancelled {
			continue
		}
		if exclude != nil && exclude(m) {
			continue
		}
		mw := timeutil.Window{
			Start: m.ScheduledAt,
			End:   m.ScheduledAt.Add(time.Duration(m.DurationMinutes) * time.Minute),
		}
		if win.Overlaps(mw) {
			return "overlaps an existing meeting", true
		}
	}
	for _, b := range c.Blocks {
		if win.Overlaps(timeutil.Window{Start: b.StartDate, End: b.EndDate}) {
			return "falls inside a blocked period", true
		}
	}
	for _, b := range c.Busy {
		if win.Overlaps(timeutil.Window{Start: b.Start, End: b.End}) {
			return "calendar reports busy", true
		}
	}
	return "", false
}

// Annotate marks a candidate slot available or unavailable for the given day.
// Pure: the caller supplies every constraint source and the current time.
func (c ConflictSet) Annotate(day time.Time, slot entities.TimeSlot, duration int) entities.TimeSlot {
	startMin, err := timeutil.ParseClock(slot.Start)
	if err != nil {
		slot.Available = false
		return slot
	}
	start := timeutil.At(day, startMin)
	win := timeutil.Window{Start: start, End: start.Add(time.Duration(duration) * time.Minute)}
	_, conflict := c.Conflicts(win, nil)
	slot.Available = !conflict
	return slot
}
