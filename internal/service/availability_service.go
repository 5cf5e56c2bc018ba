package service

import (
	"context"
	"encoding/json"
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

	"go.uber.org/zap"
)

const (
	minDurationMinutes = 15
	maxDurationMinutes = 480

	// adapterTimeout bounds every external calendar call so an unresponsive
	// provider cannot stall a request. A timeout takes the same fallback path
	// as an adapter error.
	adapterTimeout = 10 * time.Second
)

// AvailabilityService answers "what's open" for a date range. It has no write
// side effects; the booking write path re-validates against the same stores
// because time passes between a read and a subsequent write.
type AvailabilityService struct {
	Schedule ScheduleStore
	Meetings MeetingStore
	Calendar calendar.SyncAdapter
	Cache    *cache.AvailabilityCache
	Location *time.Location
	Now      func() time.Time
}

func NewAvailabilityService(schedule ScheduleStore, meetings MeetingStore, adapter calendar.SyncAdapter, availabilityCache *cache.AvailabilityCache, loc *time.Location) *AvailabilityService {
	return &AvailabilityService{
		Schedule: schedule,
		Meetings: meetings,
		Calendar: adapter,
		Cache:    availabilityCache,
		Location: loc,
		Now:      time.Now,
	}
}

func (s *AvailabilityService) GetAvailability(ctx context.Context, req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	if req.Duration < minDurationMinutes || req.Duration > maxDurationMinutes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("duration must be between %d and %d minutes", minDurationMinutes, maxDurationMinutes))
	}
	rangeStart, err := timeutil.ParseDate(req.StartDate, s.Location)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	rangeEnd, err := timeutil.ParseDate(req.EndDate, s.Location)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if rangeEnd.Before(rangeStart) {
		return nil, apperrors.InvalidInput("end_date must not be before start_date")
	}

	cacheKey := s.Cache.Key(ctx, req.StartDate, req.EndDate, req.Duration)
	if payload, ok := s.Cache.Get(ctx, cacheKey); ok {
		var cached entities.AvailabilityResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
	}

	hoursList, err := s.Schedule.GetWorkingHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	hours := make(map[int]db.WorkingHours, len(hoursList))
	for _, wh := range hoursList {
		hours[wh.DayOfWeek] = wh
	}

	// Constraint sources cover the whole range, end-exclusive after the last
	// requested day.
	rangeEndExcl := rangeEnd.AddDate(0, 0, 1)
	meetings, err := s.Meetings.ListBetween(ctx, rangeStart, rangeEndExcl)
	if err != nil {
		return nil, fmt.Errorf("load meetings: %w", err)
	}
	blocks, err := s.Schedule.ListBlocksBetween(ctx, rangeStart, rangeEndExcl)
	if err != nil {
		return nil, fmt.Errorf("load availability blocks: %w", err)
	}
	busy := s.freeBusy(ctx, rangeStart, rangeEndExcl)

	conflicts := ConflictSet{
		Meetings: meetings,
		Blocks:   blocks,
		Busy:     busy,
		Now:      s.Now(),
	}

	days := GenerateSlots(rangeStart, rangeEnd, req.Duration, hours)
	for i := range days {
		day, err := timeutil.ParseDate(days[i].Date, s.Location)
		if err != nil {
			continue
		}
		for j, slot := range days[i].Times {
			days[i].Times[j] = conflicts.Annotate(day, slot, req.Duration)
		}
	}

	resp := &entities.AvailabilityResponse{
		Slots:    days,
		Timezone: s.Location.String(),
	}
	if payload, err := json.Marshal(resp); err == nil {
		s.Cache.Set(ctx, cacheKey, payload)
	}
	return resp, nil
}

// freeBusy asks the external calendar for busy intervals. Failures (including
// the unconfigured adapter) leave the external calendar out of the
// computation; it is non-authoritative.
func (s *AvailabilityService) freeBusy(ctx context.Context, from, to time.Time) []calendar.BusyInterval {
	callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	busy, err := s.Calendar.FreeBusy(callCtx, from, to)
	if err != nil {
		if !stderrors.Is(err, calendar.ErrNotConfigured) {
			logger.Get().Warn("free/busy lookup failed", zap.Error(err))
		}
		return nil
	}
	return busy
}
