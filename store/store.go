/*
Package store defines the records and interface shared by the persistent
payroll stores.

PURPOSE:
  The engine only sees award.EmployeeProvider and award.ShiftProvider. The
  API additionally writes employees and shifts, so every backend (sqlite,
  postgres) implements Store.

SEE ALSO:
  - store/sqlite: embedded backend used for dev and tests
  - store/postgres: pgx backend
  - award/store: in-memory providers without write-through records
*/
package store

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/award"
)

// =============================================================================
// RECORDS
// =============================================================================

type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Employee is a stored employee. PayRate is kept as text so unusable
// values survive storage and read back as a zero rate.
type Employee struct {
	ID                 string
	OrganizationID     string
	FirstName          string
	LastName           string
	Email              string
	PayRate            string
	EmploymentType     string
	NoTaxFreeThreshold bool
	Active             bool
	CreatedAt          time.Time
}

type Shift struct {
	ID              string
	OrganizationID  string
	EmployeeEmail   string
	StartTime       time.Time
	EndTime         time.Time
	BreakMinutes    int
	IsPublicHoliday bool
	Active          bool
	CreatedAt       time.Time
}

// =============================================================================
// INTERFACE
// =============================================================================

// Store is a payroll data backend.
type Store interface {
	award.EmployeeProvider
	award.ShiftProvider

	SaveOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	SaveEmployee(ctx context.Context, emp Employee) (Employee, error)
	ListEmployees(ctx context.Context, orgID string) ([]Employee, error)
	SaveShift(ctx context.Context, shift Shift) (Shift, error)
	Reset(ctx context.Context) error
	Close() error
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// ParsePayRate reads a stored pay rate. Empty or non-numeric text is null.
func ParsePayRate(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Record converts a stored employee to the engine's provider record.
func (e Employee) Record() award.EmployeeRecord {
	return award.EmployeeRecord{
		ID:                 award.EmployeeID(e.ID),
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Email:              e.Email,
		PayRate:            ParsePayRate(e.PayRate),
		EmploymentType:     e.EmploymentType,
		NoTaxFreeThreshold: e.NoTaxFreeThreshold,
	}
}

// Record converts a stored shift to the engine's provider record.
func (s Shift) Record() award.ShiftRecord {
	return award.ShiftRecord{
		ID:              award.ShiftID(s.ID),
		EmployeeEmail:   s.EmployeeEmail,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		BreakDuration:   s.BreakMinutes,
		IsPublicHoliday: s.IsPublicHoliday,
	}
}

// DayRange turns inclusive calendar days into a half-open instant range.
func DayRange(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return start, end
}
