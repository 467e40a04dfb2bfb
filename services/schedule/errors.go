package schedule

import (
	"fmt"
	"time"
)

// InvalidRangeError indicates periodStart fell after periodEnd.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid period: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// MalformedRecordError identifies a record missing a required field. The
// aggregator fails fast rather than silently dropping the record; callers
// decide whether to filter upstream.
type MalformedRecordError struct {
	RecordID string
	Field    string
}

func (e *MalformedRecordError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("malformed appointment record: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed appointment record %s: invalid %s", e.RecordID, e.Field)
}
