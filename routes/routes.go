package routes

import (
	"net/http"
	"time"

	"cliniq/handlers"
	"cliniq/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAppointmentRoutes registers the appointment record endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.POST("", hb.CreateAppointmentHandler)
		api.GET("", hb.ListAppointmentsHandler)
		api.GET("/:id", hb.GetAppointmentHandler)
		api.PATCH("/:id", hb.UpdateAppointmentHandler)
		api.DELETE("/:id", hb.DeleteAppointmentHandler)
	}
}

// RegisterScheduleRoutes registers the calendar and timeline view endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		api.GET("/calendar", hb.CalendarHandler)
		api.GET("/month", hb.MonthHandler)
		api.GET("/timeline/:date", hb.TimelineHandler)
	}
}

// RegisterAnalyticsRoutes registers the analytics dashboard endpoints.
func RegisterAnalyticsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/analytics")
	{
		api.GET("/rollup", hb.RollupHandler)
		api.GET("/status-summary", hb.StatusSummaryHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes wires up CORS and every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterAnalyticsRoutes(r, hb)
}
