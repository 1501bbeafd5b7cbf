package award

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ANOMALIES - Advisory flags, never errors
// =============================================================================

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type AnomalyType string

const (
	AnomalyExcessiveHours    AnomalyType = "excessive_hours"
	AnomalyInsufficientBreak AnomalyType = "insufficient_break"
	AnomalyShortBreak        AnomalyType = "short_break"
	AnomalyOverlappingShifts AnomalyType = "overlapping_shifts"
)

// Anomaly is a policy flag raised against one or more shifts.
// EmployeeID and EmployeeName are filled in by the engine.
type Anomaly struct {
	Type         AnomalyType
	Description  string
	Severity     Severity
	EmployeeID   EmployeeID
	EmployeeName string
	ShiftIDs     []ShiftID
}

var (
	maxShiftHours      = decimal.NewFromInt(12)
	breakRequiredAfter = decimal.NewFromInt(5)
	minRestGap         = 10 * time.Hour
)

// CheckShift flags a single shift that is too long or has no break.
func CheckShift(shift Shift) []Anomaly {
	hours := WorkedHours(shift)
	var out []Anomaly

	if hours.GreaterThan(maxShiftHours) {
		out = append(out, Anomaly{
			Type:        AnomalyExcessiveHours,
			Description: fmt.Sprintf("shift of %sh exceeds %sh", hours.StringFixed(2), maxShiftHours),
			Severity:    SeverityHigh,
			ShiftIDs:    []ShiftID{shift.ID},
		})
	}
	if hours.GreaterThan(breakRequiredAfter) && shift.BreakMinutes <= 0 {
		out = append(out, Anomaly{
			Type:        AnomalyInsufficientBreak,
			Description: fmt.Sprintf("no break recorded for %sh shift", hours.StringFixed(2)),
			Severity:    SeverityMedium,
			ShiftIDs:    []ShiftID{shift.ID},
		})
	}
	return out
}

// CheckShiftPatterns looks at consecutive pairs of one worker's shifts,
// which must already be sorted by start time. Shifts without times are
// skipped.
func CheckShiftPatterns(shifts []Shift) []Anomaly {
	var out []Anomaly
	var prev *Shift
	var prevEnd time.Time

	for i := range shifts {
		cur := &shifts[i]
		start, end, ok := span(*cur, nil)
		if !ok {
			continue
		}
		if prev != nil && sameWorker(*prev, *cur) {
			gap := start.Sub(prevEnd)
			ids := []ShiftID{prev.ID, cur.ID}
			switch {
			case gap < 0:
				out = append(out, Anomaly{
					Type:        AnomalyOverlappingShifts,
					Description: fmt.Sprintf("shift overlaps the previous one by %s", -gap),
					Severity:    SeverityHigh,
					ShiftIDs:    ids,
				})
			case gap > 0 && gap < minRestGap:
				out = append(out, Anomaly{
					Type:        AnomalyShortBreak,
					Description: fmt.Sprintf("only %s between shifts, minimum is %s", gap, minRestGap),
					Severity:    SeverityMedium,
					ShiftIDs:    ids,
				})
			}
		}
		prev, prevEnd = cur, end
	}
	return out
}

func sameWorker(a, b Shift) bool {
	return a.EmployeeRef == "" || b.EmployeeRef == "" || a.EmployeeRef == b.EmployeeRef
}
