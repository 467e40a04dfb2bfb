package schedule

import (
	"strings"

	"cliniq/models"
)

// ApplyFilters returns the subset of records matching every set filter.
// The order of the input is preserved.
func ApplyFilters(records []models.Appointment, filters models.ScheduleFilters) []models.Appointment {
	if filters.IsZero() {
		return records
	}
	var matched []models.Appointment
	for _, rec := range records {
		if matchesFilters(rec, filters) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// matchesFilters applies the compound filter conjunctively: every set field
// must match for the record to pass.
func matchesFilters(rec models.Appointment, filters models.ScheduleFilters) bool {
	if filters.Status != "" && rec.Status != filters.Status {
		return false
	}
	if filters.ProviderName != "" && rec.ProviderName != filters.ProviderName {
		return false
	}
	if filters.SearchText != "" && !matchesSearch(rec, filters.SearchText) {
		return false
	}
	return true
}

// matchesSearch does a case-insensitive substring match against the fields
// the search box covers.
func matchesSearch(rec models.Appointment, text string) bool {
	needle := strings.ToLower(text)
	for _, field := range []string{
		rec.PatientName,
		rec.AppointmentType,
		rec.Notes,
		rec.ProviderName,
		rec.ProviderSpecialty,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
