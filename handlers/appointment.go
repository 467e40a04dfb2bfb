package handlers

import (
	"net/http"

	appointmentRepo "cliniq/database/repository/appointment"
	"cliniq/models"
	"cliniq/services/schedule"
	"cliniq/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes CRUD over the appointment record source. Writes
// invalidate the cached analytics rollups.
type AppointmentHandler struct {
	Repo  appointmentRepo.AppointmentRepository
	Cache schedule.RollupCache
}

// NewAppointmentHandler constructs an AppointmentHandler.
func NewAppointmentHandler(repo appointmentRepo.AppointmentRepository, cache schedule.RollupCache) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo, Cache: cache}
}

func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid appointment create request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment status", "message": string(status)})
		return
	}

	apt := models.Appointment{
		StartTime:         req.StartTime,
		DurationMinutes:   req.DurationMinutes,
		Status:            status,
		PatientName:       req.PatientName,
		ProviderName:      req.ProviderName,
		ProviderSpecialty: req.ProviderSpecialty,
		AppointmentType:   req.AppointmentType,
		Notes:             req.Notes,
		NoShowRiskScore:   req.NoShowRiskScore,
	}

	id, err := h.Repo.Create(c.Request.Context(), apt)
	if err != nil {
		logger.Error("Failed to create appointment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment", "message": err.Error()})
		return
	}
	h.invalidateRollups(c)

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *AppointmentHandler) GetAppointmentHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing appointment ID in path"})
		return
	}

	apt, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": apt})
}

func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	start, ok := parseDateParam(c, c.Query("start"), "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end")
	if !ok {
		return
	}
	if start.After(end) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date range", "start is after end")
		return
	}

	appointments, err := h.Repo.ListByRange(c.Request.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

func (h *AppointmentHandler) UpdateAppointmentHandler(c *gin.Context) {
	logger := utils.GetLogger()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing appointment ID in path"})
		return
	}

	var updates models.AppointmentUpdates
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	if updates.Status != nil && !updates.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment status", "message": string(*updates.Status)})
		return
	}
	if updates.DurationMinutes != nil && *updates.DurationMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration", "message": "durationMinutes must be positive"})
		return
	}

	if err := h.Repo.Update(c.Request.Context(), id, updates); err != nil {
		logger.Error("Failed to update appointment", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment", "message": err.Error()})
		return
	}
	h.invalidateRollups(c)

	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated successfully"})
}

func (h *AppointmentHandler) DeleteAppointmentHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing appointment ID in path"})
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to delete appointment", "message": err.Error()})
		return
	}
	h.invalidateRollups(c)

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

func (h *AppointmentHandler) invalidateRollups(c *gin.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(c.Request.Context()); err != nil {
		utils.GetLogger().Warn("Failed to invalidate rollup cache", zap.Error(err))
	}
}
