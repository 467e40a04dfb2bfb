package cron

import (
	"context"
	"log"
	"time"

	"cliniq/config"
	"cliniq/models"
	"cliniq/services/schedule"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeAnalyticsRefresh = "analytics:refresh"

// refreshWindowDays is the trailing window the dashboard opens on.
const refreshWindowDays = 30

// InitAnalyticsWorker runs the async worker in background and schedules the
// periodic rollup refresh so the dashboard cache stays warm.
func InitAnalyticsWorker(svc schedule.ScheduleService, cache schedule.RollupCache) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAnalyticsRefresh, handleAnalyticsRefresh(svc, cache))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Periodically enqueue refresh tasks.
	go func() {
		scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
		if _, err := scheduler.Register("@every 15m", asynq.NewTask(TypeAnalyticsRefresh, nil)); err != nil {
			log.Printf("[AnalyticsWorker] failed to register refresh schedule: %v", err)
			return
		}
		if err := scheduler.Run(); err != nil {
			log.Printf("[AnalyticsWorker] scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[AnalyticsWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AnalyticsWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[AnalyticsWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleAnalyticsRefresh drops the cached rollups and recomputes the
// trailing window so the next dashboard load hits a warm cache.
func handleAnalyticsRefresh(svc schedule.ScheduleService, cache schedule.RollupCache) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		end := time.Now()
		start := end.AddDate(0, 0, -refreshWindowDays)

		if cache != nil {
			if err := cache.Invalidate(ctx); err != nil {
				log.Printf("[AnalyticsRefresh] cache invalidation failed: %v", err)
			}
		}

		rollup, err := svc.AnalyticsRollup(ctx, start, end, models.ScheduleFilters{})
		if err != nil {
			log.Printf("[AnalyticsRefresh] rollup recompute failed: %v", err)
			return err
		}

		log.Printf("[AnalyticsRefresh] refreshed trailing %d-day rollup (%d appointments)",
			refreshWindowDays, rollup.Total)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[AnalyticsWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
