package models

import "time"

// ScheduleFilters narrows the record set before aggregation. All set fields
// must match (conjunctive); zero values are ignored.
type ScheduleFilters struct {
	SearchText   string            `form:"search" json:"search,omitempty"`
	Status       AppointmentStatus `form:"status" json:"status,omitempty"`
	ProviderName string            `form:"provider" json:"provider,omitempty"`
}

// IsZero reports whether no filter is set.
func (f ScheduleFilters) IsZero() bool {
	return f.SearchText == "" && f.Status == "" && f.ProviderName == ""
}

// DayBucket is the per-day summary behind a calendar cell. Derived on every
// recompute; never persisted.
type DayBucket struct {
	Date               time.Time     `json:"date"`
	IsCurrentPeriod    bool          `json:"isCurrentPeriod"`
	IsToday            bool          `json:"isToday"`
	Appointments       []Appointment `json:"appointments"`
	TotalCount         int           `json:"totalCount"`
	ConfirmedCount     int           `json:"confirmedCount"`
	PendingCount       int           `json:"pendingCount"`
	OverbookCount      int           `json:"overbookCount"`
	AvailableSlotCount int           `json:"availableSlotCount"`
	UtilizationRate    float64       `json:"utilizationRate"`
}

// TimeSlotBucket is the per-slot summary behind a timeline row. SlotStart is
// minutes from midnight (e.g. 480 for 8:00 AM). A slot stays available while
// it holds only overbook appointments.
type TimeSlotBucket struct {
	SlotStart     int           `json:"slotStart"`
	Label         string        `json:"label"`
	Appointments  []Appointment `json:"appointments"`
	IsAvailable   bool          `json:"isAvailable"`
	OverbookCount int           `json:"overbookCount"`
}

// Rollup is the aggregate statistics object the analytics dashboard renders.
// Every rate is a percentage; an empty record set reports 0 everywhere.
type Rollup struct {
	Total              int                       `json:"total"`
	ByStatus           map[AppointmentStatus]int `json:"byStatus"`
	OverbookCount      int                       `json:"overbookCount"`
	HighRiskCount      int                       `json:"highRiskCount"`
	AverageUtilization float64                   `json:"averageUtilization"`
	ConfirmationRate   float64                   `json:"confirmationRate"`
	NoShowRate         float64                   `json:"noShowRate"`
}
