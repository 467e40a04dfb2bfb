package schedule

import (
	"fmt"
	"strings"
	"time"

	"cliniq/config"
	"cliniq/models"
)

// Aggregator turns a flat appointment list plus a time window into the day
// and slot buckets the calendar, timeline and analytics views render. It is
// pure computation: no I/O, no retained state, identical inputs always yield
// identical outputs.
type Aggregator struct {
	capacity      int
	slotInterval  int
	dayStart      int
	marker        string
	riskThreshold float64
	now           func() time.Time
}

// Options carries the scheduling rules the aggregator applies. Unset fields
// fall back to the configured defaults. DayStartMinute is a pointer because
// 0 (midnight) is a valid day start.
type Options struct {
	SlotCapacityPerDay  int
	SlotIntervalMinutes int
	DayStartMinute      *int
	OverbookMarker      string
	HighRiskThreshold   float64

	// Now is the clock used for the IsToday flag; overridable in tests.
	Now func() time.Time
}

// NewAggregator builds an aggregator, filling unset options from AppConfig.
func NewAggregator(opts Options) *Aggregator {
	a := &Aggregator{
		capacity:      opts.SlotCapacityPerDay,
		slotInterval:  opts.SlotIntervalMinutes,
		marker:        opts.OverbookMarker,
		riskThreshold: opts.HighRiskThreshold,
		now:           opts.Now,
	}
	if a.capacity <= 0 {
		a.capacity = config.AppConfig.SlotCapacityPerDay
		if a.capacity <= 0 {
			a.capacity = 16
		}
	}
	if a.slotInterval <= 0 {
		a.slotInterval = config.AppConfig.SlotIntervalMinutes
		if a.slotInterval <= 0 {
			a.slotInterval = 30
		}
	}
	switch {
	case opts.DayStartMinute != nil && *opts.DayStartMinute >= 0:
		a.dayStart = *opts.DayStartMinute
	case config.AppConfig.DayStartMinute > 0:
		a.dayStart = config.AppConfig.DayStartMinute
	default:
		a.dayStart = 480
	}
	if a.marker == "" {
		a.marker = config.AppConfig.OverbookMarker
		if a.marker == "" {
			a.marker = "OVERBOOK"
		}
	}
	if a.riskThreshold <= 0 {
		a.riskThreshold = config.AppConfig.HighRiskThreshold
		if a.riskThreshold <= 0 {
			a.riskThreshold = 0.6
		}
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// SlotTimes returns the configured daily slot grid as minutes from midnight,
// one entry per unit of capacity.
func (a *Aggregator) SlotTimes() []int {
	slots := make([]int, 0, a.capacity)
	for i := 0; i < a.capacity; i++ {
		slots = append(slots, a.dayStart+i*a.slotInterval)
	}
	return slots
}

// BucketByDay produces one bucket per calendar day in [periodStart, periodEnd]
// inclusive, ascending and gapless, with filters applied conjunctively before
// counting. Days with no appointments still get a bucket.
func (a *Aggregator) BucketByDay(records []models.Appointment, periodStart, periodEnd time.Time, filters models.ScheduleFilters) ([]models.DayBucket, error) {
	start := truncateToDay(periodStart)
	end := truncateToDay(periodEnd)
	if start.After(end) {
		return nil, &InvalidRangeError{Start: periodStart, End: periodEnd}
	}
	if err := a.validateRecords(records); err != nil {
		return nil, err
	}
	return a.buildDayBuckets(records, start, end, start, end, filters), nil
}

// CalendarGrid produces the month view: the month containing ref, padded out
// to full Sunday-anchored weeks. Padding days carry IsCurrentPeriod=false but
// are otherwise ordinary day buckets.
func (a *Aggregator) CalendarGrid(records []models.Appointment, ref time.Time, filters models.ScheduleFilters) ([]models.DayBucket, error) {
	if err := a.validateRecords(records); err != nil {
		return nil, err
	}
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart, gridEnd := MonthGridRange(ref)
	return a.buildDayBuckets(records, gridStart, gridEnd, monthStart, monthEnd, filters), nil
}

// MonthGridRange returns the first and last day of the Sunday-anchored week
// grid covering ref's month.
func MonthGridRange(ref time.Time) (time.Time, time.Time) {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, int(time.Saturday-monthEnd.Weekday()))
	return gridStart, gridEnd
}

func (a *Aggregator) buildDayBuckets(records []models.Appointment, start, end, periodStart, periodEnd time.Time, filters models.ScheduleFilters) []models.DayBucket {
	today := truncateToDay(a.now().In(start.Location()))

	var buckets []models.DayBucket
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		bucket := models.DayBucket{
			Date:            day,
			IsCurrentPeriod: !day.Before(periodStart) && !day.After(periodEnd),
			IsToday:         day.Equal(today),
			Appointments:    []models.Appointment{},
		}
		for _, rec := range records {
			if !sameDay(rec.StartTime, day) || !matchesFilters(rec, filters) {
				continue
			}
			bucket.Appointments = append(bucket.Appointments, rec)
			bucket.TotalCount++
			switch rec.Status {
			case models.StatusConfirmed:
				bucket.ConfirmedCount++
			case models.StatusPending:
				bucket.PendingCount++
			}
			if a.isOverbook(rec) {
				bucket.OverbookCount++
			}
		}
		bucket.AvailableSlotCount = a.capacity - bucket.TotalCount
		if bucket.AvailableSlotCount < 0 {
			bucket.AvailableSlotCount = 0
		}
		bucket.UtilizationRate = float64(bucket.TotalCount) / float64(a.capacity) * 100
		buckets = append(buckets, bucket)
	}
	return buckets
}

// BucketByTimeSlot groups day's appointments into the given slot grid, one
// bucket per slot time in input order. An appointment belongs to a slot only
// when its start time equals the slot start exactly; no rounding. Overbook
// appointments are tallied but never make a slot unavailable on their own.
func (a *Aggregator) BucketByTimeSlot(records []models.Appointment, day time.Time, slotTimes []int) ([]models.TimeSlotBucket, error) {
	if err := a.validateRecords(records); err != nil {
		return nil, err
	}

	buckets := make([]models.TimeSlotBucket, 0, len(slotTimes))
	for _, slot := range slotTimes {
		bucket := models.TimeSlotBucket{
			SlotStart:    slot,
			Label:        formatMinutes(slot),
			Appointments: []models.Appointment{},
			IsAvailable:  true,
		}
		for _, rec := range records {
			if !sameDay(rec.StartTime, day) || !startsAtMinute(rec.StartTime, day.Location(), slot) {
				continue
			}
			bucket.Appointments = append(bucket.Appointments, rec)
			if a.isOverbook(rec) {
				bucket.OverbookCount++
			} else {
				bucket.IsAvailable = false
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// ComputeRollup aggregates dashboard statistics over the given record set and
// day buckets. A zero total defines every rate as 0 rather than NaN.
func (a *Aggregator) ComputeRollup(records []models.Appointment, days []models.DayBucket) (models.Rollup, error) {
	if err := a.validateRecords(records); err != nil {
		return models.Rollup{}, err
	}

	rollup := models.Rollup{
		Total:    len(records),
		ByStatus: make(map[models.AppointmentStatus]int, len(models.AllStatuses())),
	}
	for _, s := range models.AllStatuses() {
		rollup.ByStatus[s] = 0
	}
	for _, rec := range records {
		rollup.ByStatus[rec.Status]++
		if a.isOverbook(rec) {
			rollup.OverbookCount++
		}
		if rec.NoShowRiskScore > a.riskThreshold {
			rollup.HighRiskCount++
		}
	}
	if rollup.Total > 0 {
		rollup.ConfirmationRate = float64(rollup.ByStatus[models.StatusConfirmed]) / float64(rollup.Total) * 100
		rollup.NoShowRate = float64(rollup.ByStatus[models.StatusNoShow]) / float64(rollup.Total) * 100
	}
	if len(days) > 0 {
		var sum float64
		for _, d := range days {
			sum += d.UtilizationRate
		}
		rollup.AverageUtilization = sum / float64(len(days))
	}
	return rollup, nil
}

func (a *Aggregator) isOverbook(rec models.Appointment) bool {
	return strings.Contains(rec.Notes, a.marker)
}

// validateRecords fails fast on the first record missing a required field.
func (a *Aggregator) validateRecords(records []models.Appointment) error {
	for _, rec := range records {
		if rec.ID == "" {
			return &MalformedRecordError{Field: "id"}
		}
		if rec.StartTime.IsZero() {
			return &MalformedRecordError{RecordID: rec.ID, Field: "startTime"}
		}
		if rec.DurationMinutes <= 0 {
			return &MalformedRecordError{RecordID: rec.ID, Field: "durationMinutes"}
		}
		if !rec.Status.Valid() {
			return &MalformedRecordError{RecordID: rec.ID, Field: "status"}
		}
		if rec.NoShowRiskScore < 0 || rec.NoShowRiskScore > 1 {
			return &MalformedRecordError{RecordID: rec.ID, Field: "noShowRiskScore"}
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	return t.Year() == day.Year() && t.Month() == day.Month() && t.Day() == day.Day()
}

// startsAtMinute reports whether t falls exactly on the given minute of its
// day; seconds disqualify the match.
func startsAtMinute(t time.Time, loc *time.Location, minute int) bool {
	t = t.In(loc)
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	return t.Hour()*60+t.Minute() == minute
}

// formatMinutes renders minutes-from-midnight as a 12-hour clock label.
func formatMinutes(m int) string {
	h, min := m/60, m%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, min, suffix)
}
