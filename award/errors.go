/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  The calculators themselves never fail: malformed shifts produce zero
  breakdowns and anomalies are output, not errors. The only errors the
  engine surfaces are about its inputs as a whole (bad periods, bad award
  configuration) and about collaborators that could not load data.

ERROR CATEGORIES:
  1. Client errors - invalid period or date strings
  2. Configuration errors - an award table that cannot be used
  3. Provider errors - employee/shift lookups that failed upstream

USAGE:
  summary, err := engine.Summarize(ctx, orgID, period)
  if award.IsProviderFailure(err) {
      // surface as a hard failure, do not render a zero summary
  }
*/
package award

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidDate is returned when a date is not an ISO calendar date.
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

	// ErrProviderFailed is returned when employees or shifts cannot be loaded.
	ErrProviderFailed = errors.New("payroll provider failed")

	// ErrInvalidAward is returned when an award table is incomplete or negative.
	ErrInvalidAward = errors.New("invalid award configuration")

	// ErrProviderRequired is returned when the engine has no provider wired.
	ErrProviderRequired = errors.New("engine requires employee and shift providers")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ProviderError records which collaborator failed and for which organization.
type ProviderError struct {
	Provider       string // "employees" or "shifts"
	OrganizationID OrganizationID
	Err            error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("load %s for organization %s: %v", e.Provider, e.OrganizationID, e.Err)
}

// Unwrap exposes both the sentinel and the upstream cause to errors.Is.
func (e *ProviderError) Unwrap() []error {
	return []error{ErrProviderFailed, e.Err}
}

// AwardError names the part of an award table that failed validation.
type AwardError struct {
	Field   string
	Message string
}

func (e *AwardError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidAward, e.Field, e.Message)
}

func (e *AwardError) Unwrap() error { return ErrInvalidAward }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) || errors.Is(err, ErrInvalidDate)
}

// IsProviderFailure returns true if employees or shifts could not be loaded.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrProviderFailed)
}
