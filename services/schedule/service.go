package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cliniq/config"
	"cliniq/models"
	"cliniq/utils"

	"go.uber.org/zap"
)

// CalendarView returns one day bucket per calendar day in [start, end].
func (s *DefaultScheduleService) CalendarView(ctx context.Context, start, end time.Time, filters models.ScheduleFilters) ([]models.DayBucket, error) {
	if dayFloor(start).After(dayFloor(end)) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	records, err := s.Repo.ListByRange(ctx, dayFloor(start), dayFloor(end).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	return s.Agg.BucketByDay(records, start, end, filters)
}

// MonthView returns the padded calendar grid for the month containing ref.
func (s *DefaultScheduleService) MonthView(ctx context.Context, ref time.Time, filters models.ScheduleFilters) ([]models.DayBucket, error) {
	gridStart, gridEnd := MonthGridRange(ref)
	records, err := s.Repo.ListByRange(ctx, gridStart, gridEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	return s.Agg.CalendarGrid(records, ref, filters)
}

// DayTimeline returns the slot-by-slot view of a single day.
func (s *DefaultScheduleService) DayTimeline(ctx context.Context, day time.Time, filters models.ScheduleFilters) ([]models.TimeSlotBucket, error) {
	start := dayFloor(day)
	records, err := s.Repo.ListByRange(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	return s.Agg.BucketByTimeSlot(ApplyFilters(records, filters), start, s.Agg.SlotTimes())
}

// AnalyticsRollup computes the dashboard statistics for a range. Unfiltered
// rollups are cached; filtered ones are always computed fresh.
func (s *DefaultScheduleService) AnalyticsRollup(ctx context.Context, start, end time.Time, filters models.ScheduleFilters) (*models.Rollup, error) {
	if dayFloor(start).After(dayFloor(end)) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	logger := utils.GetLogger()

	cacheable := filters.IsZero() && s.Cache != nil
	cacheKey := fmt.Sprintf("%s%s:%s", utils.RollupCachePrefix,
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	if cacheable {
		if cached, err := s.Cache.Get(ctx, cacheKey); err == nil {
			var rollup models.Rollup
			if err := json.Unmarshal(cached, &rollup); err == nil {
				return &rollup, nil
			}
			logger.Warn("Discarding undecodable cached rollup", zap.String("key", cacheKey))
		} else if !errors.Is(err, utils.ErrCacheMiss) {
			logger.Warn("Rollup cache read failed", zap.Error(err))
		}
	}

	records, err := s.Repo.ListByRange(ctx, dayFloor(start), dayFloor(end).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}

	days, err := s.Agg.BucketByDay(records, start, end, filters)
	if err != nil {
		return nil, err
	}
	rollup, err := s.Agg.ComputeRollup(ApplyFilters(records, filters), days)
	if err != nil {
		return nil, err
	}

	if cacheable {
		payload, err := json.Marshal(rollup)
		if err == nil {
			ttl := time.Duration(config.AppConfig.RollupCacheTTLMin) * time.Minute
			if ttl <= 0 {
				ttl = 15 * time.Minute
			}
			if err := s.Cache.Set(ctx, cacheKey, payload, ttl); err != nil {
				logger.Warn("Rollup cache write failed", zap.Error(err))
			}
		}
	}
	return &rollup, nil
}

// StatusSummary returns per-status appointment counts for [start, end],
// aggregated server-side by the repository rather than in memory.
func (s *DefaultScheduleService) StatusSummary(ctx context.Context, start, end time.Time) (map[models.AppointmentStatus]int, error) {
	if dayFloor(start).After(dayFloor(end)) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	counts, err := s.Repo.CountByStatus(ctx, dayFloor(start), dayFloor(end).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	if counts == nil {
		counts = make(map[models.AppointmentStatus]int, len(models.AllStatuses()))
	}
	for _, status := range models.AllStatuses() {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}

func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
