package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cliniq/models"
	"cliniq/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAppointmentRepository is a mock implementation of AppointmentRepository.
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, apt models.Appointment) (string, error) {
	args := m.Called(ctx, apt)
	return args.String(0), args.Error(1)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id string, updates models.AppointmentUpdates) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListByRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) CountByStatus(ctx context.Context, start, end time.Time) (map[models.AppointmentStatus]int, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(map[models.AppointmentStatus]int), args.Error(1)
}

func (m *MockAppointmentRepository) EnsureIndexes() error {
	args := m.Called()
	return args.Error(0)
}

// MockRollupCache is a mock implementation of RollupCache.
type MockRollupCache struct {
	mock.Mock
}

func (m *MockRollupCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRollupCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}

func (m *MockRollupCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupTestService() (*DefaultScheduleService, *MockAppointmentRepository) {
	mockRepo := &MockAppointmentRepository{}
	svc := &DefaultScheduleService{
		Repo: mockRepo,
		Agg:  newTestAggregator(),
	}
	return svc, mockRepo
}

func setupCachedTestService() (*DefaultScheduleService, *MockAppointmentRepository, *MockRollupCache) {
	svc, mockRepo := setupTestService()
	mockCache := &MockRollupCache{}
	svc.Cache = mockCache
	return svc, mockRepo, mockCache
}

func TestCalendarViewFetchesInclusiveRange(t *testing.T) {
	svc, mockRepo := setupTestService()
	records := []models.Appointment{
		testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed),
	}

	// The repo query spans [start, end+1d) so the last day is included.
	mockRepo.On("ListByRange", mock.Anything, day(2025, 1, 6), day(2025, 1, 9)).
		Return(records, nil)

	buckets, err := svc.CalendarView(context.Background(), day(2025, 1, 6), day(2025, 1, 8), models.ScheduleFilters{})
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, 1, buckets[0].TotalCount)

	mockRepo.AssertExpectations(t)
}

func TestCalendarViewInvalidRangeSkipsFetch(t *testing.T) {
	svc, mockRepo := setupTestService()

	_, err := svc.CalendarView(context.Background(), day(2025, 1, 8), day(2025, 1, 6), models.ScheduleFilters{})
	require.Error(t, err)

	var rangeErr *InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
	mockRepo.AssertNotCalled(t, "ListByRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalendarViewPropagatesRepoError(t *testing.T) {
	svc, mockRepo := setupTestService()

	mockRepo.On("ListByRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Appointment(nil), errors.New("connection reset"))

	_, err := svc.CalendarView(context.Background(), day(2025, 1, 6), day(2025, 1, 8), models.ScheduleFilters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestMonthViewFetchesGridRange(t *testing.T) {
	svc, mockRepo := setupTestService()

	// January 2025 pads to Dec 29 – Feb 1; the fetch covers one day past the
	// grid end.
	mockRepo.On("ListByRange", mock.Anything, day(2024, 12, 29), day(2025, 2, 2)).
		Return([]models.Appointment{}, nil)

	buckets, err := svc.MonthView(context.Background(), day(2025, 1, 15), models.ScheduleFilters{})
	require.NoError(t, err)
	require.Len(t, buckets, 35)

	mockRepo.AssertExpectations(t)
}

func TestDayTimelineAppliesFiltersAndSlotGrid(t *testing.T) {
	svc, mockRepo := setupTestService()

	adams := testAppointment("a1", at(2025, 1, 6, 8, 0), models.StatusConfirmed)
	baker := testAppointment("a2", at(2025, 1, 6, 8, 0), models.StatusConfirmed)
	baker.ProviderName = "Dr. Baker"

	mockRepo.On("ListByRange", mock.Anything, day(2025, 1, 6), day(2025, 1, 7)).
		Return([]models.Appointment{adams, baker}, nil)

	slots, err := svc.DayTimeline(context.Background(), day(2025, 1, 6),
		models.ScheduleFilters{ProviderName: "Dr. Baker"})
	require.NoError(t, err)
	require.Len(t, slots, 16)

	require.Len(t, slots[0].Appointments, 1)
	assert.Equal(t, "a2", slots[0].Appointments[0].ID)
	assert.False(t, slots[0].IsAvailable)
	for _, s := range slots[1:] {
		assert.True(t, s.IsAvailable)
	}
}

func TestAnalyticsRollupWithoutCache(t *testing.T) {
	svc, mockRepo := setupTestService()

	records := []models.Appointment{
		testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed),
		testAppointment("a2", at(2025, 1, 7, 9, 0), models.StatusNoShow),
	}
	mockRepo.On("ListByRange", mock.Anything, day(2025, 1, 6), day(2025, 1, 8)).
		Return(records, nil)

	rollup, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 7), models.ScheduleFilters{})
	require.NoError(t, err)

	assert.Equal(t, 2, rollup.Total)
	assert.InDelta(t, 50.0, rollup.ConfirmationRate, 0.001)
	assert.InDelta(t, 50.0, rollup.NoShowRate, 0.001)
}

func TestAnalyticsRollupFilteredSet(t *testing.T) {
	svc, mockRepo := setupTestService()

	adams := testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed)
	baker := testAppointment("a2", at(2025, 1, 6, 9, 30), models.StatusNoShow)
	baker.ProviderName = "Dr. Baker"

	mockRepo.On("ListByRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Appointment{adams, baker}, nil)

	rollup, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 6),
		models.ScheduleFilters{ProviderName: "Dr. Adams"})
	require.NoError(t, err)

	// Only Dr. Adams' confirmed visit survives the filter.
	assert.Equal(t, 1, rollup.Total)
	assert.InDelta(t, 100.0, rollup.ConfirmationRate, 0.001)
	assert.Zero(t, rollup.NoShowRate)
}

func TestAnalyticsRollupCacheHitSkipsRepo(t *testing.T) {
	svc, mockRepo, mockCache := setupCachedTestService()

	cached := models.Rollup{
		Total:    7,
		ByStatus: map[models.AppointmentStatus]int{models.StatusConfirmed: 7},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mockCache.On("Get", mock.Anything, "rollup:2025-01-06:2025-01-07").
		Return(payload, nil)

	rollup, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 7), models.ScheduleFilters{})
	require.NoError(t, err)

	assert.Equal(t, 7, rollup.Total)
	mockRepo.AssertNotCalled(t, "ListByRange", mock.Anything, mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsRollupCacheMissComputesAndWrites(t *testing.T) {
	svc, mockRepo, mockCache := setupCachedTestService()

	records := []models.Appointment{
		testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed),
	}
	mockRepo.On("ListByRange", mock.Anything, day(2025, 1, 6), day(2025, 1, 8)).
		Return(records, nil)

	const key = "rollup:2025-01-06:2025-01-07"
	mockCache.On("Get", mock.Anything, key).
		Return([]byte(nil), utils.ErrCacheMiss)

	var written []byte
	mockCache.On("Set", mock.Anything, key, mock.Anything, 15*time.Minute).
		Run(func(args mock.Arguments) {
			written = args.Get(2).([]byte)
		}).
		Return(nil)

	rollup, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 7), models.ScheduleFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, rollup.Total)

	// The stored payload round-trips to the computed rollup.
	mockCache.AssertExpectations(t)
	var stored models.Rollup
	require.NoError(t, json.Unmarshal(written, &stored))
	assert.Equal(t, *rollup, stored)
}

func TestAnalyticsRollupUndecodableCachedPayload(t *testing.T) {
	svc, mockRepo, mockCache := setupCachedTestService()

	records := []models.Appointment{
		testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed),
	}
	mockRepo.On("ListByRange", mock.Anything, day(2025, 1, 6), day(2025, 1, 7)).
		Return(records, nil)

	// Garbage in the cache is discarded, recomputed and rewritten.
	mockCache.On("Get", mock.Anything, mock.Anything).
		Return([]byte("{not json"), nil)
	mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	rollup, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 6), models.ScheduleFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, rollup.Total)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAnalyticsRollupFilteredBypassesCache(t *testing.T) {
	svc, mockRepo, mockCache := setupCachedTestService()

	records := []models.Appointment{
		testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed),
	}
	mockRepo.On("ListByRange", mock.Anything, mock.Anything, mock.Anything).
		Return(records, nil)

	// A filtered request never touches the cache even when one is wired.
	rollup, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 6),
		models.ScheduleFilters{ProviderName: "Dr. Adams"})
	require.NoError(t, err)
	assert.Equal(t, 1, rollup.Total)

	mockCache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsRollupMalformedRecordFailsFast(t *testing.T) {
	svc, mockRepo := setupTestService()

	bad := testAppointment("a1", at(2025, 1, 6, 9, 0), models.StatusConfirmed)
	bad.DurationMinutes = -10
	mockRepo.On("ListByRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Appointment{bad}, nil)

	_, err := svc.AnalyticsRollup(context.Background(), day(2025, 1, 6), day(2025, 1, 6), models.ScheduleFilters{})
	require.Error(t, err)

	var recErr *MalformedRecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "a1", recErr.RecordID)
}

func TestStatusSummaryCountsServerSide(t *testing.T) {
	svc, mockRepo := setupTestService()

	// Counting happens in the repository pipeline, not over a fetched list.
	mockRepo.On("CountByStatus", mock.Anything, day(2025, 1, 6), day(2025, 1, 8)).
		Return(map[models.AppointmentStatus]int{
			models.StatusConfirmed: 3,
			models.StatusNoShow:    1,
		}, nil)

	counts, err := svc.StatusSummary(context.Background(), day(2025, 1, 6), day(2025, 1, 7))
	require.NoError(t, err)

	assert.Equal(t, 3, counts[models.StatusConfirmed])
	assert.Equal(t, 1, counts[models.StatusNoShow])
	// Statuses absent from the pipeline output are reported as zero.
	assert.Equal(t, 0, counts[models.StatusPending])
	assert.Equal(t, 0, counts[models.StatusCancelled])
	mockRepo.AssertNotCalled(t, "ListByRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusSummaryInvalidRange(t *testing.T) {
	svc, mockRepo := setupTestService()

	_, err := svc.StatusSummary(context.Background(), day(2025, 1, 8), day(2025, 1, 6))
	require.Error(t, err)

	var rangeErr *InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
	mockRepo.AssertNotCalled(t, "CountByStatus", mock.Anything, mock.Anything, mock.Anything)
}
