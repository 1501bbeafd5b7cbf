package award

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Inclusive pay date range
// =============================================================================

// Period is the inclusive calendar range a payroll summary covers.
// Start and End are dates; End covers the whole of its day.
//
// Examples:
//   - One pay week: Mon 2025-03-03 .. Sun 2025-03-09
//   - A fortnight:  2025-03-03 .. 2025-03-16
type Period struct {
	Start time.Time
	End   time.Time
}

const dateLayout = "2006-01-02"

// NewPeriod builds a period from two dates, truncating any time of day.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: dateOf(start), End: dateOf(end)}
	if p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	return p, nil
}

// ParsePeriod parses two ISO calendar dates (YYYY-MM-DD).
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}
	return NewPeriod(s, e)
}

// Week returns the seven-day period starting on start.
func Week(start time.Time) Period {
	s := dateOf(start)
	return Period{Start: s, End: s.AddDate(0, 0, 6)}
}

// Contains reports whether t falls on a day inside [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.EndExclusive())
}

// ContainsDay reports whether t's calendar date, read in t's own location,
// is one of the period's days.
func (p Period) ContainsDay(t time.Time) bool {
	day := civil(t)
	return !day.Before(civil(p.Start)) && !day.After(civil(p.End))
}

// EndExclusive is midnight after End.
func (p Period) EndExclusive() time.Time { return p.End.AddDate(0, 0, 1) }

// Days is the inclusive number of calendar days.
func (p Period) Days() int {
	return int(p.EndExclusive().Sub(p.Start).Hours()/24 + 0.5)
}

// Weeks is the number of pay weeks the period spans, rounded up, minimum 1.
func (p Period) Weeks() int {
	w := (p.Days() + 6) / 7
	if w < 1 {
		return 1
	}
	return w
}

func (p Period) String() string {
	return "[" + p.Start.Format(dateLayout) + ", " + p.End.Format(dateLayout) + "]"
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
