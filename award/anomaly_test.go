package award_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/award"
)

func anomalyTypes(as []award.Anomaly) []award.AnomalyType {
	out := make([]award.AnomalyType, 0, len(as))
	for _, a := range as {
		out = append(out, a.Type)
	}
	return out
}

// =============================================================================
// SINGLE SHIFT
// =============================================================================

func TestCheckShift_Boundaries(t *testing.T) {
	start := at(3, 6, 0)
	cases := []struct {
		name   string
		length time.Duration
		brk    int
		want   []award.AnomalyType
	}{
		{"exactly 5h without break", 5 * time.Hour, 0, nil},
		{"just over 5h without break", 5*time.Hour + time.Minute, 0, []award.AnomalyType{award.AnomalyInsufficientBreak}},
		{"8h with break", 8*time.Hour + 30*time.Minute, 30, nil},
		{"exactly 12h with break", 12*time.Hour + 30*time.Minute, 30, nil},
		{"12.01h with break", 12*time.Hour + 30*time.Minute + 36*time.Second, 30, []award.AnomalyType{award.AnomalyExcessiveHours}},
		{"14h without break", 14 * time.Hour, 0, []award.AnomalyType{award.AnomalyExcessiveHours, award.AnomalyInsufficientBreak}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := award.CheckShift(shift("s1", start, start.Add(tc.length), tc.brk))
			assert.ElementsMatch(t, tc.want, anomalyTypes(got))
		})
	}
}

func TestCheckShift_Severity(t *testing.T) {
	got := award.CheckShift(shift("s1", at(3, 6, 0), at(3, 20, 0), 0))

	require.Len(t, got, 2)
	assert.Equal(t, award.SeverityHigh, got[0].Severity)
	assert.Equal(t, award.SeverityMedium, got[1].Severity)
	assert.Equal(t, []award.ShiftID{"s1"}, got[0].ShiftIDs)
}

// =============================================================================
// PATTERNS
// =============================================================================

func TestCheckShiftPatterns_RestGap(t *testing.T) {
	// GIVEN: Two shifts separated by the given gap
	// WHEN: Checking patterns
	// THEN: Only gaps strictly between 0 and 10h are short breaks

	first := shift("a", at(3, 8, 0), at(3, 16, 0), 30)
	cases := []struct {
		name string
		gap  time.Duration
		want []award.AnomalyType
	}{
		{"exactly 10h", 10 * time.Hour, nil},
		{"9.99h", 9*time.Hour + 59*time.Minute + 24*time.Second, []award.AnomalyType{award.AnomalyShortBreak}},
		{"back to back", 0, nil},
		{"overlap", -time.Hour, []award.AnomalyType{award.AnomalyOverlappingShifts}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nextStart := first.EndTime.Add(tc.gap)
			second := shift("b", nextStart, nextStart.Add(8*time.Hour), 30)

			got := award.CheckShiftPatterns([]award.Shift{first, second})

			assert.ElementsMatch(t, tc.want, anomalyTypes(got))
			for _, a := range got {
				assert.Equal(t, []award.ShiftID{"a", "b"}, a.ShiftIDs)
			}
		})
	}
}

func TestCheckShiftPatterns_OvernightEndUsesAdjustedTime(t *testing.T) {
	// GIVEN: A night shift recorded with end clock time before start
	// THEN: The gap is measured from the adjusted next-day end

	night := shift("n", at(3, 22, 0), at(3, 6, 0), 30)
	morning := shift("m", at(4, 12, 0), at(4, 20, 0), 30)

	got := award.CheckShiftPatterns([]award.Shift{night, morning})

	assert.Equal(t, []award.AnomalyType{award.AnomalyShortBreak}, anomalyTypes(got))
}

func TestCheckShiftPatterns_SkipsMalformedAndOtherWorkers(t *testing.T) {
	a := shift("a", at(3, 8, 0), at(3, 16, 0), 30)
	broken := award.Shift{ID: "x", EmployeeRef: "emp-1"}
	other := shift("o", at(3, 18, 0), at(3, 22, 0), 0)
	other.EmployeeRef = "emp-2"

	assert.Empty(t, award.CheckShiftPatterns([]award.Shift{a, broken, other}))
	assert.Empty(t, award.CheckShiftPatterns(nil))
}
