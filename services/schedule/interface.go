package schedule

import (
	"context"
	"time"

	appointmentRepo "cliniq/database/repository/appointment"
	"cliniq/models"
)

// ScheduleService exposes the schedule and analytics views: fetch the record
// set from the repository, run the aggregator, optionally serve rollups from
// cache.
type ScheduleService interface {
	CalendarView(ctx context.Context, start, end time.Time, filters models.ScheduleFilters) ([]models.DayBucket, error)
	MonthView(ctx context.Context, month time.Time, filters models.ScheduleFilters) ([]models.DayBucket, error)
	DayTimeline(ctx context.Context, day time.Time, filters models.ScheduleFilters) ([]models.TimeSlotBucket, error)
	AnalyticsRollup(ctx context.Context, start, end time.Time, filters models.ScheduleFilters) (*models.Rollup, error)
	StatusSummary(ctx context.Context, start, end time.Time) (map[models.AppointmentStatus]int, error)
}

// RollupCache caches serialized rollups. Get reports absence with
// utils.ErrCacheMiss; Invalidate drops all cached rollups.
type RollupCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// DefaultScheduleService implements ScheduleService.
type DefaultScheduleService struct {
	Repo  appointmentRepo.AppointmentRepository
	Agg   *Aggregator
	Cache RollupCache
}
