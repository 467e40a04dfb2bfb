package handlers

import (
	"errors"
	"net/http"
	"time"

	"cliniq/models"
	"cliniq/services/schedule"
	"cliniq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler serves the calendar, timeline and analytics views.
type ScheduleHandler struct {
	Service schedule.ScheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

// CalendarHandler handles GET /api/schedule/calendar?start=&end=&search=&status=&provider=
func (h *ScheduleHandler) CalendarHandler(c *gin.Context) {
	start, ok := parseDateParam(c, c.Query("start"), "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end")
	if !ok {
		return
	}
	filters, ok := bindFilters(c)
	if !ok {
		return
	}

	days, err := h.Service.CalendarView(c.Request.Context(), start, end, filters)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// MonthHandler handles GET /api/schedule/month?month=2025-01&...
// The response is the full week grid around the requested month.
func (h *ScheduleHandler) MonthHandler(c *gin.Context) {
	monthParam := c.Query("month")
	ref, err := time.Parse("2006-01", monthParam)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid month parameter", "expected YYYY-MM, got "+monthParam)
		return
	}
	filters, ok := bindFilters(c)
	if !ok {
		return
	}

	days, err := h.Service.MonthView(c.Request.Context(), ref, filters)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// TimelineHandler handles GET /api/schedule/timeline/:date
func (h *ScheduleHandler) TimelineHandler(c *gin.Context) {
	day, ok := parseDateParam(c, c.Param("date"), "date")
	if !ok {
		return
	}
	filters, ok := bindFilters(c)
	if !ok {
		return
	}

	slots, err := h.Service.DayTimeline(c.Request.Context(), day, filters)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format("2006-01-02"), "slots": slots})
}

// RollupHandler handles GET /api/analytics/rollup?start=&end=&...
func (h *ScheduleHandler) RollupHandler(c *gin.Context) {
	start, ok := parseDateParam(c, c.Query("start"), "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end")
	if !ok {
		return
	}
	filters, ok := bindFilters(c)
	if !ok {
		return
	}

	rollup, err := h.Service.AnalyticsRollup(c.Request.Context(), start, end, filters)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rollup": rollup})
}

// StatusSummaryHandler handles GET /api/analytics/status-summary?start=&end=
func (h *ScheduleHandler) StatusSummaryHandler(c *gin.Context) {
	start, ok := parseDateParam(c, c.Query("start"), "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end")
	if !ok {
		return
	}

	counts, err := h.Service.StatusSummary(c.Request.Context(), start, end)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"byStatus": counts})
}

func parseDateParam(c *gin.Context, value, name string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid "+name+" parameter", "expected YYYY-MM-DD, got "+value)
		return time.Time{}, false
	}
	return t, true
}

func bindFilters(c *gin.Context) (models.ScheduleFilters, bool) {
	var filters models.ScheduleFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid filter parameters", err.Error())
		return filters, false
	}
	if filters.Status != "" && !filters.Status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "Invalid status filter", string(filters.Status))
		return filters, false
	}
	return filters, true
}

// respondScheduleError maps aggregator errors onto HTTP statuses.
func respondScheduleError(c *gin.Context, err error) {
	logger := utils.GetLogger()

	var rangeErr *schedule.InvalidRangeError
	if errors.As(err, &rangeErr) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date range", rangeErr.Error())
		return
	}
	var recordErr *schedule.MalformedRecordError
	if errors.As(err, &recordErr) {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Malformed appointment record", recordErr.Error())
		return
	}

	logger.Error("Schedule computation failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Failed to compute schedule view", err.Error())
}
