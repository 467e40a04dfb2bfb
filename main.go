// File: cliniq/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cliniq/config"
	"cliniq/cron"
	"cliniq/database"
	appointmentRepo "cliniq/database/repository/appointment"
	"cliniq/handlers"
	"cliniq/middleware"
	"cliniq/routes"
	"cliniq/services/schedule"
	"cliniq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Warn("main: failed to ensure appointment indexes", zap.Error(err))
	}

	// services.
	rollupCache := utils.NewRollupCache(utils.GetCacheClient())
	scheduleService := &schedule.DefaultScheduleService{
		Repo:  apptRepo,
		Agg:   schedule.NewAggregator(schedule.Options{}),
		Cache: rollupCache,
	}

	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	appointmentHandler := handlers.NewAppointmentHandler(apptRepo, rollupCache)

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(scheduleHandler, appointmentHandler)
	routes.RegisterRoutes(router, handlerBundle)

	// Background analytics refresh and health monitoring.
	cron.InitAnalyticsWorker(scheduleService, rollupCache)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
