package award_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/award"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// 2025-03-03 is a Monday; 8th Saturday, 9th Sunday.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func shift(id string, start, end time.Time, breakMin int) award.Shift {
	return award.Shift{ID: award.ShiftID(id), EmployeeRef: "emp-1", StartTime: start, EndTime: end, BreakMinutes: breakMin}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func classify(s award.Shift) award.HoursBreakdown {
	return award.Classify(s, award.DefaultClassifierConfig())
}

// =============================================================================
// WEEKDAY LOADINGS
// =============================================================================

func TestClassify_WeekdayDayShift_AllBase(t *testing.T) {
	// GIVEN: Monday 09:00-17:00, no break
	// WHEN: Classifying
	// THEN: 8 base hours, no overtime

	h := classify(shift("s1", at(3, 9, 0), at(3, 17, 0), 0))

	assertDec(t, "8", h.Base)
	assertDec(t, "8", h.Total)
	assert.True(t, h.OvertimeFirst2h.IsZero())
	assert.True(t, h.Afternoon.IsZero())
}

func TestClassify_EndsAfter2000_Afternoon(t *testing.T) {
	h := classify(shift("s1", at(3, 14, 0), at(3, 22, 0), 0))

	assertDec(t, "8", h.Afternoon)
	assert.True(t, h.Base.IsZero())
}

func TestClassify_EndsExactly2000_NotAfternoon(t *testing.T) {
	// GIVEN: Shift ending on the 20:00 boundary
	// THEN: Afternoon requires ending strictly after 20:00

	h := classify(shift("s1", at(3, 12, 0), at(3, 20, 0), 0))

	assertDec(t, "8", h.Base)
	assert.True(t, h.Afternoon.IsZero())
}

func TestClassify_CrossesMidnight_Night(t *testing.T) {
	h := classify(shift("s1", at(3, 22, 0), at(4, 6, 0), 0))

	assertDec(t, "8", h.Night)
	assertDec(t, "8", h.Total)
}

func TestClassify_StartsBefore0600_Night(t *testing.T) {
	h := classify(shift("s1", at(3, 4, 0), at(3, 12, 0), 0))

	assertDec(t, "8", h.Night)
}

func TestClassify_EndBeforeStart_TreatedAsOvernight(t *testing.T) {
	// GIVEN: End recorded with the start date but an earlier clock time
	// WHEN: Classifying
	// THEN: End moves to the next day and the shift is a night shift

	h := classify(shift("s1", at(3, 22, 0), at(3, 6, 0), 0))

	assertDec(t, "8", h.Night)
	assertDec(t, "8", h.Total)
}

// =============================================================================
// OVERTIME
// =============================================================================

func TestClassify_Exactly8Hours_NoOvertime(t *testing.T) {
	h := classify(shift("s1", at(3, 8, 0), at(3, 16, 30), 30))

	assertDec(t, "8", h.Base)
	assert.True(t, h.OvertimeFirst2h.IsZero())
	assert.True(t, h.OvertimeAfter2h.IsZero())
}

func TestClassify_LongWeekday_SplitsOvertimeTiers(t *testing.T) {
	// GIVEN: Monday 07:00-19:00 with a 30 minute break (11.5h worked)
	// WHEN: Classifying
	// THEN: 8 ordinary, 2 at first tier, 1.5 at second tier

	h := classify(shift("s1", at(3, 7, 0), at(3, 19, 0), 30))

	assertDec(t, "8", h.Base)
	assertDec(t, "2", h.OvertimeFirst2h)
	assertDec(t, "1.5", h.OvertimeAfter2h)
	assertDec(t, "11.5", h.Total)
}

func TestClassify_OvertimeOnAfternoonShift_OrdinaryBlockLoaded(t *testing.T) {
	h := classify(shift("s1", at(3, 12, 0), at(3, 22, 0), 0))

	assertDec(t, "8", h.Afternoon)
	assertDec(t, "2", h.OvertimeFirst2h)
}

func TestClassify_CustomStandardDay(t *testing.T) {
	cfg := award.ClassifierConfig{StandardDayHours: dec("7.6")}

	h := award.Classify(shift("s1", at(3, 9, 0), at(3, 17, 0), 0), cfg)

	assertDec(t, "7.6", h.Base)
	assertDec(t, "0.4", h.OvertimeFirst2h)
}

// =============================================================================
// WEEKENDS & PUBLIC HOLIDAYS
// =============================================================================

func TestClassify_Saturday_SingleBucketNoOvertime(t *testing.T) {
	h := classify(shift("s1", at(8, 8, 0), at(8, 18, 0), 0))

	assertDec(t, "10", h.Saturday)
	assert.True(t, h.OvertimeFirst2h.IsZero())
	assert.True(t, h.Base.IsZero())
}

func TestClassify_Sunday(t *testing.T) {
	h := classify(shift("s1", at(9, 9, 0), at(9, 17, 0), 0))

	assertDec(t, "8", h.Sunday)
}

func TestClassify_PublicHolidayOnSunday_PublicHolidayWins(t *testing.T) {
	s := shift("s1", at(9, 9, 0), at(9, 17, 0), 0)
	s.IsPublicHoliday = true

	h := classify(s)

	assertDec(t, "8", h.PublicHoliday)
	assert.True(t, h.Sunday.IsZero())
	assert.Equal(t, award.DayPublicHoliday, award.DayCategoryOf(s, award.DefaultClassifierConfig()))
}

func TestClassify_Location_DecidesWeekday(t *testing.T) {
	// GIVEN: Friday 14:00 UTC, which is Saturday 01:00 in Sydney
	// WHEN: Classifying with and without the Sydney location
	// THEN: The location changes the day category

	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)
	s := shift("s1", at(7, 14, 0), at(7, 22, 0), 0)

	utc := classify(s)
	local := award.Classify(s, award.ClassifierConfig{StandardDayHours: dec("8"), Location: sydney})

	assertDec(t, "8", utc.Afternoon)
	assertDec(t, "8", local.Saturday)
}

// =============================================================================
// MALFORMED SHIFTS
// =============================================================================

func TestClassify_Malformed_ZeroBreakdown(t *testing.T) {
	cases := map[string]award.Shift{
		"missing start":      {ID: "s1", EndTime: at(3, 17, 0)},
		"missing end":        {ID: "s1", StartTime: at(3, 9, 0)},
		"zero length":        shift("s1", at(3, 9, 0), at(3, 9, 0), 0),
		"break exceeds span": shift("s1", at(3, 9, 0), at(3, 10, 0), 90),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			h := classify(s)
			assert.True(t, h.IsZero())
			assert.True(t, h.Buckets.Sum().IsZero())
		})
	}
}

func TestClassify_NegativeBreak_CountsAsNoBreak(t *testing.T) {
	// GIVEN: A 09:00-17:00 weekday with a break of -120 minutes
	// WHEN: Classifying and pricing it
	// THEN: It is 8 ordinary hours, no overtime, and flagged as unbroken

	s := shift("s1", at(3, 9, 0), at(3, 17, 0), -120)
	h := classify(s)

	assertDec(t, "8", h.Total)
	assertDec(t, "8", h.Base)
	assert.True(t, h.OvertimeFirst2h.IsZero())
	assertDec(t, "8", award.WorkedHours(s))

	assert.Equal(t, []award.AnomalyType{award.AnomalyInsufficientBreak}, anomalyTypes(award.CheckShift(s)))
}

func TestClassify_RoundsHoursToCents(t *testing.T) {
	// 7h 20m = 7.333.. hours
	h := classify(shift("s1", at(3, 9, 0), at(3, 16, 20), 0))

	assertDec(t, "7.33", h.Total)
	assertDec(t, "7.33", h.Base)
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestClassify_BucketsSumToTotal_AndOneDayBranch(t *testing.T) {
	// GIVEN: Every start hour across a week, with a range of lengths and breaks
	// THEN: Buckets sum to Total and at most one weekend/holiday bucket is used

	tolerance := dec("0.01")
	for day := 3; day <= 9; day++ {
		for hour := 0; hour < 24; hour += 3 {
			for _, length := range []int{1, 5, 8, 9, 11, 14} {
				for _, brk := range []int{0, 30} {
					start := at(day, hour, 0)
					s := shift("s", start, start.Add(time.Duration(length)*time.Hour), brk)
					s.IsPublicHoliday = day == 5 && hour == 9

					h := classify(s)

					diff := h.Buckets.Sum().Sub(h.Total).Abs()
					require.True(t, diff.LessThanOrEqual(tolerance), "sum mismatch for %v", s)

					special := 0
					for _, v := range []decimal.Decimal{h.PublicHoliday, h.Sunday, h.Saturday} {
						if !v.IsZero() {
							special++
						}
					}
					require.LessOrEqual(t, special, 1)
					if special == 1 {
						weekday := h.Base.Add(h.Afternoon).Add(h.Night).Add(h.OvertimeFirst2h).Add(h.OvertimeAfter2h)
						require.True(t, weekday.IsZero(), "weekday buckets set on %v", s)
					}
				}
			}
		}
	}
}
