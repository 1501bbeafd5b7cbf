/*
classify.go - Shift classification into award categories

PURPOSE:
  Splits one shift's worked hours into the mutually exclusive pay buckets.
  The day category is decided once per shift and dispatched on, so a shift
  can only ever land in one of the public holiday, Sunday, Saturday or
  weekday branches.

DAY CATEGORY (priority order):
  1. PublicHoliday - all hours to PublicHoliday, no overtime split
  2. Sunday        - all hours to Sunday
  3. Saturday      - all hours to Saturday
  4. Weekday       - ordinary hours up to StandardDayHours, then overtime
                     (first 2h, after 2h)

SHIFT LOADING (weekday ordinary hours only, whole shift):
  Night:     starts before 06:00, or ends on a later day than it started
  Afternoon: not night, ends after 20:00
  Base:      neither

  Weekend overtime is not split out; Saturday and Sunday each use a single
  bucket whatever the shift length.
*/
package award

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG
// =============================================================================

// ClassifierConfig tunes classification.
type ClassifierConfig struct {
	// StandardDayHours is the ordinary-hours threshold on weekdays.
	StandardDayHours decimal.Decimal

	// Location, when set, is the time zone weekday and hour checks run in.
	// Nil keeps the shift's own location.
	Location *time.Location
}

// DefaultClassifierConfig is an 8 hour standard day.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{StandardDayHours: decimal.NewFromInt(8)}
}

// =============================================================================
// DAY CATEGORY - Tagged variant decided once per shift
// =============================================================================

type DayCategory int

const (
	DayWeekday DayCategory = iota
	DaySaturday
	DaySunday
	DayPublicHoliday
)

func (d DayCategory) String() string {
	switch d {
	case DayPublicHoliday:
		return "public_holiday"
	case DaySunday:
		return "sunday"
	case DaySaturday:
		return "saturday"
	default:
		return "weekday"
	}
}

// DayCategoryOf picks the day category for a shift.
func DayCategoryOf(shift Shift, cfg ClassifierConfig) DayCategory {
	if shift.IsPublicHoliday {
		return DayPublicHoliday
	}
	switch inLocation(shift.StartTime, cfg.Location).Weekday() {
	case time.Sunday:
		return DaySunday
	case time.Saturday:
		return DaySaturday
	default:
		return DayWeekday
	}
}

// =============================================================================
// SHIFT LOADING
// =============================================================================

type Loading int

const (
	LoadingBase Loading = iota
	LoadingAfternoon
	LoadingNight
)

func (l Loading) Category() Category {
	switch l {
	case LoadingNight:
		return CategoryNight
	case LoadingAfternoon:
		return CategoryAfternoon
	default:
		return CategoryBase
	}
}

var (
	nightEndsBefore    = 6 * time.Hour
	afternoonEndsAfter = 20 * time.Hour
)

// LoadingOf classifies a shift's ordinary block as a whole.
func LoadingOf(start, end time.Time) Loading {
	startDay := dateOf(start)
	endDay := dateOf(end)

	if sinceMidnight(start) < nightEndsBefore {
		return LoadingNight
	}
	if endDay.After(startDay) {
		// crossing midnight covers ending before 06:00 the next day
		return LoadingNight
	}
	if sinceMidnight(end) > afternoonEndsAfter {
		return LoadingAfternoon
	}
	return LoadingBase
}

func sinceMidnight(t time.Time) time.Duration {
	return t.Sub(dateOf(t))
}

// =============================================================================
// CLASSIFY
// =============================================================================

var (
	hourMinutes = decimal.NewFromInt(60)
	twoHours    = decimal.NewFromInt(2)
)

// WorkedHours returns break-adjusted hours for a shift, rounded to 2dp.
// Zero is returned for shifts with missing times or non-positive length.
// A negative break counts as no break.
func WorkedHours(shift Shift) decimal.Decimal {
	start, end, ok := span(shift, nil)
	if !ok {
		return decimal.Zero
	}
	brk := max(shift.BreakMinutes, 0)
	minutes := decimal.NewFromFloat(end.Sub(start).Minutes()).Sub(decimal.NewFromInt(int64(brk)))
	hours := minutes.Div(hourMinutes).Round(2)
	if !hours.IsPositive() {
		return decimal.Zero
	}
	return hours
}

// Classify splits a shift into award categories.
func Classify(shift Shift, cfg ClassifierConfig) HoursBreakdown {
	total := WorkedHours(shift)
	if total.IsZero() {
		return HoursBreakdown{}
	}
	if !cfg.StandardDayHours.IsPositive() {
		cfg.StandardDayHours = DefaultClassifierConfig().StandardDayHours
	}

	var b Buckets
	switch DayCategoryOf(shift, cfg) {
	case DayPublicHoliday:
		b.PublicHoliday = total
	case DaySunday:
		b.Sunday = total
	case DaySaturday:
		b.Saturday = total
	case DayWeekday:
		start, end, _ := span(shift, cfg.Location)
		ordinary := decimal.Min(total, cfg.StandardDayHours).Round(2)
		overtime := total.Sub(ordinary)
		first := decimal.Min(overtime, twoHours).Round(2)

		b = b.With(LoadingOf(start, end).Category(), ordinary)
		b.OvertimeFirst2h = first
		b.OvertimeAfter2h = overtime.Sub(first).Round(2)
	}

	return HoursBreakdown{Buckets: b, Total: total}
}

// span returns the shift's start and end in loc, moving an end that falls
// before its start forward a day.
func span(shift Shift, loc *time.Location) (time.Time, time.Time, bool) {
	if shift.StartTime.IsZero() || shift.EndTime.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	start := inLocation(shift.StartTime, loc)
	end := inLocation(shift.EndTime, loc)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
