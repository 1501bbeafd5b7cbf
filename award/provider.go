package award

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROVIDERS - Collaborators that supply employees and shifts
// =============================================================================

// EmployeeProvider returns the active employees of an organization.
type EmployeeProvider interface {
	ActiveEmployees(ctx context.Context, orgID OrganizationID) ([]EmployeeRecord, error)
}

// ShiftProvider returns active worked shifts starting on a day in [from, to].
type ShiftProvider interface {
	WorkedShifts(ctx context.Context, orgID OrganizationID, from, to time.Time) ([]ShiftRecord, error)
}

// EmployeeRecord is an employee as a collaborator stores it. PayRate is
// null when the stored value is missing or not a number.
type EmployeeRecord struct {
	ID                 EmployeeID
	FirstName          string
	LastName           string
	Email              string
	PayRate            decimal.NullDecimal
	EmploymentType     string
	NoTaxFreeThreshold bool
}

// ShiftRecord is a worked shift keyed by employee email.
// BreakDuration is in minutes.
type ShiftRecord struct {
	ID              ShiftID
	EmployeeEmail   string
	StartTime       time.Time
	EndTime         time.Time
	BreakDuration   int
	IsPublicHoliday bool
}

// ToEmployee converts a record, treating an unusable pay rate as zero.
func (r EmployeeRecord) ToEmployee() Employee {
	rate := decimal.Zero
	if r.PayRate.Valid && !r.PayRate.Decimal.IsNegative() {
		rate = r.PayRate.Decimal
	}
	return Employee{
		ID:                 r.ID,
		Name:               strings.TrimSpace(r.FirstName + " " + r.LastName),
		Email:              r.Email,
		BaseHourlyRate:     rate,
		EmploymentType:     ParseEmploymentType(r.EmploymentType),
		NoTaxFreeThreshold: r.NoTaxFreeThreshold,
	}
}

// ToShift converts a record for the given employee.
func (r ShiftRecord) ToShift(employee EmployeeID) Shift {
	brk := r.BreakDuration
	if brk < 0 {
		brk = 0
	}
	return Shift{
		ID:              r.ID,
		EmployeeRef:     employee,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		BreakMinutes:    brk,
		IsPublicHoliday: r.IsPublicHoliday,
	}
}

// EmailKey normalizes an email for grouping shifts by employee.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
