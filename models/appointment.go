package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// AllStatuses lists every valid appointment status, in lifecycle order.
func AllStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		StatusPending,
		StatusConfirmed,
		StatusCompleted,
		StatusCancelled,
		StatusNoShow,
	}
}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a single scheduled visit, already joined with the patient
// and provider display fields the calendar and analytics screens need.
// Records are immutable once fetched; the aggregator never mutates them.
type Appointment struct {
	ID                string            `bson:"id" json:"id"`
	StartTime         time.Time         `bson:"startTime" json:"startTime"`
	DurationMinutes   int               `bson:"durationMinutes" json:"durationMinutes"`
	Status            AppointmentStatus `bson:"status" json:"status"`
	PatientName       string            `bson:"patientName" json:"patientName"`
	ProviderName      string            `bson:"providerName" json:"providerName"`
	ProviderSpecialty string            `bson:"providerSpecialty" json:"providerSpecialty"`
	AppointmentType   string            `bson:"appointmentType" json:"appointmentType"`
	Notes             string            `bson:"notes,omitempty" json:"notes,omitempty"`
	NoShowRiskScore   float64           `bson:"noShowRiskScore" json:"noShowRiskScore"`
}

// AppointmentUpdates carries the mutable fields for a partial update.
// Nil pointers mean "leave unchanged".
type AppointmentUpdates struct {
	StartTime       *time.Time         `json:"startTime,omitempty"`
	DurationMinutes *int               `json:"durationMinutes,omitempty"`
	Status          *AppointmentStatus `json:"status,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	NoShowRiskScore *float64           `json:"noShowRiskScore,omitempty"`
}

// CreateAppointmentRequest defines the payload for booking an appointment.
type CreateAppointmentRequest struct {
	StartTime         time.Time         `json:"startTime" binding:"required"`
	DurationMinutes   int               `json:"durationMinutes" binding:"required,gt=0"`
	Status            AppointmentStatus `json:"status"`
	PatientName       string            `json:"patientName" binding:"required"`
	ProviderName      string            `json:"providerName" binding:"required"`
	ProviderSpecialty string            `json:"providerSpecialty"`
	AppointmentType   string            `json:"appointmentType" binding:"required"`
	Notes             string            `json:"notes"`
	NoShowRiskScore   float64           `json:"noShowRiskScore" binding:"gte=0,lte=1"`
}
