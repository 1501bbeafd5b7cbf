/*
Package award provides the award-based payroll calculation engine.

PURPOSE:
  Turns worked-shift records into classified hours, award-compliant gross
  earnings, PAYG withholding, superannuation and anomaly flags. Everything
  in this package is a pure function of its inputs: the engine is handed
  in-memory employees and shifts and returns freshly built values.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: One worked shift as supplied by the timekeeping collaborator
  - Employee: Rate and employment type used to price the shift
  - Category: One of the eight mutually exclusive pay buckets
  - HoursBreakdown / EarningsBreakdown: Per-category hours and dollars

DESIGN PRINCIPLES:
  1. Precision: hours and money are decimal.Decimal, never float64
  2. Accumulation: breakdowns are values, folded with Combine/Add
  3. Rounding: hours at classification, money once at the engine boundary

USAGE:
  hours := award.Classify(shift, award.DefaultClassifierConfig())
  result := award.ComputeEmployeeEarnings(employee, shifts, schads.Award())

SEE ALSO:
  - classify.go: Day category and shift loading rules
  - earnings.go: Rate table application
  - summary.go: Organization-level orchestration
*/
package award

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ShiftID string
type OrganizationID string

// =============================================================================
// EMPLOYMENT TYPE
// =============================================================================

// EmploymentType selects the multiplier column of the rate table.
type EmploymentType string

const (
	Permanent EmploymentType = "permanent"
	Casual    EmploymentType = "casual"
)

// ParseEmploymentType maps a collaborator value onto an EmploymentType.
// Anything that is not "casual" (full-time, part-time, empty) is permanent.
func ParseEmploymentType(s string) EmploymentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "casual":
		return Casual
	default:
		return Permanent
	}
}

// =============================================================================
// SHIFT & EMPLOYEE
// =============================================================================

// Shift is a worked shift. It is owned by the timekeeping collaborator and
// read-only here.
type Shift struct {
	ID              ShiftID
	EmployeeRef     EmployeeID
	StartTime       time.Time
	EndTime         time.Time
	BreakMinutes    int
	IsPublicHoliday bool
}

// Employee carries what the engine needs to price shifts.
// BaseHourlyRate is always the permanent base rate; casual loading is
// derived from the rate table.
type Employee struct {
	ID                 EmployeeID
	Name               string
	Email              string
	BaseHourlyRate     decimal.Decimal
	EmploymentType     EmploymentType
	NoTaxFreeThreshold bool
}

// =============================================================================
// CATEGORY - Mutually exclusive pay buckets
// =============================================================================

type Category string

const (
	CategoryBase            Category = "base"
	CategoryAfternoon       Category = "afternoon"
	CategoryNight           Category = "night"
	CategorySaturday        Category = "saturday"
	CategorySunday          Category = "sunday"
	CategoryPublicHoliday   Category = "public_holiday"
	CategoryOvertimeFirst2h Category = "overtime_first_2h"
	CategoryOvertimeAfter2h Category = "overtime_after_2h"
)

// Categories lists every bucket in display order.
var Categories = []Category{
	CategoryBase,
	CategoryAfternoon,
	CategoryNight,
	CategorySaturday,
	CategorySunday,
	CategoryPublicHoliday,
	CategoryOvertimeFirst2h,
	CategoryOvertimeAfter2h,
}

// =============================================================================
// BUCKETS - Shared storage for hours and earnings
// =============================================================================

// Buckets holds one decimal per Category.
type Buckets struct {
	Base            decimal.Decimal
	Afternoon       decimal.Decimal
	Night           decimal.Decimal
	Saturday        decimal.Decimal
	Sunday          decimal.Decimal
	PublicHoliday   decimal.Decimal
	OvertimeFirst2h decimal.Decimal
	OvertimeAfter2h decimal.Decimal
}

// Get returns the value for a category.
func (b Buckets) Get(c Category) decimal.Decimal {
	switch c {
	case CategoryBase:
		return b.Base
	case CategoryAfternoon:
		return b.Afternoon
	case CategoryNight:
		return b.Night
	case CategorySaturday:
		return b.Saturday
	case CategorySunday:
		return b.Sunday
	case CategoryPublicHoliday:
		return b.PublicHoliday
	case CategoryOvertimeFirst2h:
		return b.OvertimeFirst2h
	case CategoryOvertimeAfter2h:
		return b.OvertimeAfter2h
	}
	return decimal.Zero
}

// With returns a copy with the category set to v.
func (b Buckets) With(c Category, v decimal.Decimal) Buckets {
	switch c {
	case CategoryBase:
		b.Base = v
	case CategoryAfternoon:
		b.Afternoon = v
	case CategoryNight:
		b.Night = v
	case CategorySaturday:
		b.Saturday = v
	case CategorySunday:
		b.Sunday = v
	case CategoryPublicHoliday:
		b.PublicHoliday = v
	case CategoryOvertimeFirst2h:
		b.OvertimeFirst2h = v
	case CategoryOvertimeAfter2h:
		b.OvertimeAfter2h = v
	}
	return b
}

// Add sums two bucket sets category by category.
func (b Buckets) Add(o Buckets) Buckets {
	out := b
	for _, c := range Categories {
		out = out.With(c, b.Get(c).Add(o.Get(c)))
	}
	return out
}

// Sum adds every category together.
func (b Buckets) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, c := range Categories {
		total = total.Add(b.Get(c))
	}
	return total
}

// Round rounds every category to places.
func (b Buckets) Round(places int32) Buckets {
	out := b
	for _, c := range Categories {
		out = out.With(c, b.Get(c).Round(places))
	}
	return out
}

// =============================================================================
// HOURS & EARNINGS BREAKDOWNS
// =============================================================================

// HoursBreakdown is the classifier output for one shift, or the sum over
// many shifts. Invariant: Buckets.Sum() == Total.
type HoursBreakdown struct {
	Buckets
	Total decimal.Decimal
}

// Combine folds another breakdown into a new value.
func (h HoursBreakdown) Combine(o HoursBreakdown) HoursBreakdown {
	return HoursBreakdown{Buckets: h.Buckets.Add(o.Buckets), Total: h.Total.Add(o.Total)}
}

// IsZero reports whether no hours were classified.
func (h HoursBreakdown) IsZero() bool { return h.Total.IsZero() }

// EarningsBreakdown maps the same categories to dollar amounts.
type EarningsBreakdown struct {
	Buckets
}

// Combine folds another breakdown into a new value.
func (e EarningsBreakdown) Combine(o EarningsBreakdown) EarningsBreakdown {
	return EarningsBreakdown{Buckets: e.Buckets.Add(o.Buckets)}
}

// Total is the gross pay represented by the breakdown.
func (e EarningsBreakdown) Total() decimal.Decimal { return e.Buckets.Sum() }

// Ordinary is gross pay minus both overtime tiers (ordinary time earnings).
func (e EarningsBreakdown) Ordinary() decimal.Decimal {
	return e.Total().Sub(e.OvertimeFirst2h).Sub(e.OvertimeAfter2h)
}

// =============================================================================
// RESULTS
// =============================================================================

// EmployeeResult is the per-employee payroll outcome.
// GrossPay is Breakdown.Total() rounded to cents. Breakdown keeps exact
// amounts; rounding each bucket separately can drift a few cents from
// GrossPay, which is the figure to pay.
type EmployeeResult struct {
	EmployeeID  EmployeeID
	Name        string
	Email       string
	HoursWorked decimal.Decimal
	GrossPay    decimal.Decimal
	Tax         decimal.Decimal
	Super       decimal.Decimal
	Breakdown   EarningsBreakdown
	Hours       HoursBreakdown
	Anomalies   []Anomaly
}

// Totals are the organization-level sums.
type Totals struct {
	EmployeeCount int
	GrossPay      decimal.Decimal
	Hours         decimal.Decimal
	Tax           decimal.Decimal
	Super         decimal.Decimal
}

// Summary is the organization rollup for a period. Breakdown buckets are
// rounded one by one, so their sum may differ from Totals.GrossPay by a
// few cents; Totals.GrossPay is authoritative.
type Summary struct {
	OrganizationID OrganizationID
	Period         Period
	Totals         Totals
	Breakdown      EarningsBreakdown
	Employees      []EmployeeResult
	Anomalies      []Anomaly
}
