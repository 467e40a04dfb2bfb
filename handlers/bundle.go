package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler the router needs.
type HandlerBundle struct {
	// Appointment endpoints.
	CreateAppointmentHandler gin.HandlerFunc
	GetAppointmentHandler    gin.HandlerFunc
	ListAppointmentsHandler  gin.HandlerFunc
	UpdateAppointmentHandler gin.HandlerFunc
	DeleteAppointmentHandler gin.HandlerFunc

	// Schedule view endpoints.
	CalendarHandler gin.HandlerFunc
	MonthHandler    gin.HandlerFunc
	TimelineHandler gin.HandlerFunc

	// Analytics endpoints.
	RollupHandler        gin.HandlerFunc
	StatusSummaryHandler gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the concrete handlers.
func NewHandlerBundle(sched *ScheduleHandler, appt *AppointmentHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateAppointmentHandler: appt.CreateAppointmentHandler,
		GetAppointmentHandler:    appt.GetAppointmentHandler,
		ListAppointmentsHandler:  appt.ListAppointmentsHandler,
		UpdateAppointmentHandler: appt.UpdateAppointmentHandler,
		DeleteAppointmentHandler: appt.DeleteAppointmentHandler,

		CalendarHandler: sched.CalendarHandler,
		MonthHandler:    sched.MonthHandler,
		TimelineHandler: sched.TimelineHandler,

		RollupHandler:        sched.RollupHandler,
		StatusSummaryHandler: sched.StatusSummaryHandler,
	}
}
