/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Money and hours are
  rendered as fixed two-decimal strings straight from the engine's decimal
  values, so clients never see float rounding.

  Each earnings bucket is rounded to cents on its own. Adding up the
  buckets can therefore miss gross_pay by a few cents; gross_pay is the
  amount paid.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small one-off response wrappers

TYPES:
  Payroll:   SummaryDTO, EmployeePayDTO, TotalsDTO, BucketsDTO, AnomalyDTO
  Employees: EmployeeDTO, CreateEmployeeRequest
  Shifts:    ShiftDTO, CreateShiftRequest
  Tools:     ClassifyRequest, ClassifyResponse, TaxResponse, SuperResponse
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/store"
)

const dateLayout = "2006-01-02"

// =============================================================================
// PAYROLL
// =============================================================================

// BucketsDTO is one value per pay category, each rounded to cents.
type BucketsDTO struct {
	Base            string `json:"base"`
	Afternoon       string `json:"afternoon"`
	Night           string `json:"night"`
	Saturday        string `json:"saturday"`
	Sunday          string `json:"sunday"`
	PublicHoliday   string `json:"public_holiday"`
	OvertimeFirst2h string `json:"overtime_first_2h"`
	OvertimeAfter2h string `json:"overtime_after_2h"`
}

type AnomalyDTO struct {
	Type         string   `json:"type"`
	Severity     string   `json:"severity"`
	Description  string   `json:"description"`
	EmployeeID   string   `json:"employee_id,omitempty"`
	EmployeeName string   `json:"employee_name,omitempty"`
	ShiftIDs     []string `json:"shift_ids"`
}

// EmployeePayDTO is one employee's line in a payroll summary.
type EmployeePayDTO struct {
	EmployeeID  string       `json:"employee_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	HoursWorked string       `json:"hours_worked"`
	GrossPay    string       `json:"gross_pay"`
	Tax         string       `json:"tax"`
	Super       string       `json:"super"`
	Hours       BucketsDTO   `json:"hours"`
	Earnings    BucketsDTO   `json:"earnings"`
	Anomalies   []AnomalyDTO `json:"anomalies"`
}

type TotalsDTO struct {
	EmployeeCount int    `json:"employee_count"`
	GrossPay      string `json:"gross_pay"`
	Hours         string `json:"hours"`
	Tax           string `json:"tax"`
	Super         string `json:"super"`
}

// SummaryDTO is the payroll summary response.
type SummaryDTO struct {
	OrganizationID string           `json:"organization_id"`
	Start          string           `json:"start"`
	End            string           `json:"end"`
	Totals         TotalsDTO        `json:"totals"`
	Breakdown      BucketsDTO       `json:"breakdown"`
	Employees      []EmployeePayDTO `json:"employees"`
	Anomalies      []AnomalyDTO     `json:"anomalies"`
}

// =============================================================================
// EMPLOYEES & SHIFTS
// =============================================================================

type EmployeeDTO struct {
	ID                 string `json:"id"`
	OrganizationID     string `json:"organization_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	PayRate            string `json:"pay_rate"`
	EmploymentType     string `json:"employment_type"`
	NoTaxFreeThreshold bool   `json:"no_tax_free_threshold"`
	Active             bool   `json:"active"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
// Active defaults to true.
type CreateEmployeeRequest struct {
	ID                 string `json:"id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	PayRate            string `json:"pay_rate"`
	EmploymentType     string `json:"employment_type"`
	NoTaxFreeThreshold bool   `json:"no_tax_free_threshold"`
	Active             *bool  `json:"active"`
}

type ShiftDTO struct {
	ID              string `json:"id"`
	OrganizationID  string `json:"organization_id"`
	EmployeeEmail   string `json:"employee_email"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	BreakMinutes    int    `json:"break_minutes"`
	IsPublicHoliday bool   `json:"is_public_holiday"`
	Active          bool   `json:"active"`
}

// CreateShiftRequest records a worked shift. Times are RFC 3339 and keep
// their offset.
type CreateShiftRequest struct {
	ID              string `json:"id"`
	EmployeeEmail   string `json:"employee_email"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	BreakMinutes    int    `json:"break_minutes"`
	IsPublicHoliday bool   `json:"is_public_holiday"`
	Active          *bool  `json:"active"`
}

// =============================================================================
// CALCULATOR TOOLS
// =============================================================================

// ClassifyRequest prices a single ad-hoc shift.
type ClassifyRequest struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	BreakMinutes    int    `json:"break_minutes"`
	IsPublicHoliday bool   `json:"is_public_holiday"`
	PayRate         string `json:"pay_rate"`
	EmploymentType  string `json:"employment_type"`
}

type ClassifyResponse struct {
	DayCategory string       `json:"day_category"`
	TotalHours  string       `json:"total_hours"`
	Hours       BucketsDTO   `json:"hours"`
	Earnings    BucketsDTO   `json:"earnings"`
	GrossPay    string       `json:"gross_pay"`
	Anomalies   []AnomalyDTO `json:"anomalies"`
}

type TaxResponse struct {
	WeeklyGross     string `json:"weekly_gross"`
	ClaimsThreshold bool   `json:"claims_threshold"`
	Withholding     string `json:"withholding"`
}

type SuperResponse struct {
	Earnings string `json:"earnings"`
	Rate     string `json:"rate"`
	Super    string `json:"super"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	OrganizationID string `json:"organization_id"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func toBucketsDTO(b award.Buckets) BucketsDTO {
	return BucketsDTO{
		Base:            money(b.Base),
		Afternoon:       money(b.Afternoon),
		Night:           money(b.Night),
		Saturday:        money(b.Saturday),
		Sunday:          money(b.Sunday),
		PublicHoliday:   money(b.PublicHoliday),
		OvertimeFirst2h: money(b.OvertimeFirst2h),
		OvertimeAfter2h: money(b.OvertimeAfter2h),
	}
}

func toAnomalyDTOs(as []award.Anomaly) []AnomalyDTO {
	dtos := make([]AnomalyDTO, len(as))
	for i, a := range as {
		ids := make([]string, len(a.ShiftIDs))
		for j, id := range a.ShiftIDs {
			ids[j] = string(id)
		}
		dtos[i] = AnomalyDTO{
			Type:         string(a.Type),
			Severity:     string(a.Severity),
			Description:  a.Description,
			EmployeeID:   string(a.EmployeeID),
			EmployeeName: a.EmployeeName,
			ShiftIDs:     ids,
		}
	}
	return dtos
}

func toSummaryDTO(s *award.Summary) SummaryDTO {
	employees := make([]EmployeePayDTO, len(s.Employees))
	for i, e := range s.Employees {
		employees[i] = EmployeePayDTO{
			EmployeeID:  string(e.EmployeeID),
			Name:        e.Name,
			Email:       e.Email,
			HoursWorked: money(e.HoursWorked),
			GrossPay:    money(e.GrossPay),
			Tax:         money(e.Tax),
			Super:       money(e.Super),
			Hours:       toBucketsDTO(e.Hours.Buckets),
			Earnings:    toBucketsDTO(e.Breakdown.Buckets),
			Anomalies:   toAnomalyDTOs(e.Anomalies),
		}
	}
	return SummaryDTO{
		OrganizationID: string(s.OrganizationID),
		Start:          s.Period.Start.Format(dateLayout),
		End:            s.Period.End.Format(dateLayout),
		Totals: TotalsDTO{
			EmployeeCount: s.Totals.EmployeeCount,
			GrossPay:      money(s.Totals.GrossPay),
			Hours:         money(s.Totals.Hours),
			Tax:           money(s.Totals.Tax),
			Super:         money(s.Totals.Super),
		},
		Breakdown: toBucketsDTO(s.Breakdown.Buckets),
		Employees: employees,
		Anomalies: toAnomalyDTOs(s.Anomalies),
	}
}

func toEmployeeDTO(e store.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                 e.ID,
		OrganizationID:     e.OrganizationID,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Email:              e.Email,
		PayRate:            e.PayRate,
		EmploymentType:     e.EmploymentType,
		NoTaxFreeThreshold: e.NoTaxFreeThreshold,
		Active:             e.Active,
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toShiftDTO(s store.Shift) ShiftDTO {
	return ShiftDTO{
		ID:              s.ID,
		OrganizationID:  s.OrganizationID,
		EmployeeEmail:   s.EmployeeEmail,
		StartTime:       s.StartTime.Format(time.RFC3339),
		EndTime:         s.EndTime.Format(time.RFC3339),
		BreakMinutes:    s.BreakMinutes,
		IsPublicHoliday: s.IsPublicHoliday,
		Active:          s.Active,
	}
}
