package service

import (
	"context"
	"fmt"
	"time"

	"meetbook/internal/cache"
	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"
	"meetbook/internal/repository"
	"meetbook/internal/timeutil"

	"github.com/google/uuid"
)

// ScheduleService manages the operator's booking configuration: recurring
// working hours and blackout blocks.
type ScheduleService struct {
	Repo  *repository.ScheduleRepository
	Cache *cache.AvailabilityCache
}

func NewScheduleService(repo *repository.ScheduleRepository, availabilityCache *cache.AvailabilityCache) *ScheduleService {
	return &ScheduleService{Repo: repo, Cache: availabilityCache}
}

func (s *ScheduleService) GetWorkingHours(ctx context.Context) ([]db.WorkingHours, error) {
	return s.Repo.GetWorkingHours(ctx)
}

func (s *ScheduleService) UpdateWorkingHours(ctx context.Context, wh db.WorkingHours) error {
	if wh.DayOfWeek < 0 || wh.DayOfWeek > 6 {
		return apperrors.InvalidInput(fmt.Sprintf("day_of_week %d out of range", wh.DayOfWeek))
	}
	if wh.IsEnabled {
		startMin, err := parseClockInput(wh.StartTime)
		if err != nil {
			return err
		}
		endMin, err := parseClockInput(wh.EndTime)
		if err != nil {
			return err
		}
		if startMin >= endMin {
			return apperrors.InvalidInput("start_time must be before end_time")
		}
	}
	if err := s.Repo.UpsertWorkingHours(ctx, wh); err != nil {
		return err
	}
	s.Cache.Bump(ctx)
	return nil
}

// ListBlocks returns current and future blocks; past blackouts no longer
// constrain anything.
func (s *ScheduleService) ListBlocks(ctx context.Context, now time.Time) ([]db.AvailabilityBlock, error) {
	return s.Repo.ListBlocksBetween(ctx, now, now.AddDate(1, 0, 0))
}

func (s *ScheduleService) CreateBlock(ctx context.Context, startDate, endDate time.Time, reason string) (*db.AvailabilityBlock, error) {
	if !endDate.After(startDate) {
		return nil, apperrors.InvalidInput("end_date must be after start_date")
	}
	block := &db.AvailabilityBlock{
		ID:        uuid.New(),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
	}
	if err := s.Repo.CreateBlock(ctx, block); err != nil {
		return nil, err
	}
	s.Cache.Bump(ctx)
	return block, nil
}

func (s *ScheduleService) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteBlock(ctx, id); err != nil {
		return err
	}
	s.Cache.Bump(ctx)
	return nil
}

func parseClockInput(s string) (int, error) {
	min, err := timeutil.ParseClock(s)
	if err != nil {
		return 0, apperrors.InvalidInput(err.Error())
	}
	return min, nil
}
