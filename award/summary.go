/*
summary.go - Organization payroll summary

PURPOSE:
  Loads employees and shifts from the collaborators, prices every
  employee's shifts concurrently and folds the results into one Summary.

FLOW:
  1. Load active employees (ProviderError on failure)
  2. Load worked shifts in the inclusive period (ProviderError on failure)
  3. Group shifts by employee email; unmatched shifts are dropped
  4. Per employee, in parallel: earnings, tax, super, anomalies
  5. Fold totals and flatten anomalies in employee order
  6. Round aggregates to cents once

  Employees without shifts are still listed with zero figures. The same
  inputs always give the same Summary.
*/
package award

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config tunes the engine.
type Config struct {
	// Workers bounds concurrent per-employee computations. <= 0 means 4.
	Workers int

	// Location is the time zone used for day and hour classification.
	Location *time.Location
}

// Engine orchestrates a payroll summary over its providers.
type Engine struct {
	Employees EmployeeProvider
	Shifts    ShiftProvider
	Award     Award
	Config    Config
	Logger    *zap.Logger
}

// NewEngine wires an engine. A nil logger is replaced by a no-op logger.
func NewEngine(employees EmployeeProvider, shifts ShiftProvider, a Award, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Employees: employees, Shifts: shifts, Award: a, Config: cfg, Logger: logger}
}

const defaultWorkers = 4

// Summarize computes the organization's payroll for the period.
func (e *Engine) Summarize(ctx context.Context, orgID OrganizationID, period Period) (*Summary, error) {
	if e.Employees == nil || e.Shifts == nil {
		return nil, ErrProviderRequired
	}
	log := e.logger().With(zap.String("org", string(orgID)), zap.Stringer("period", period))

	empRecords, err := e.Employees.ActiveEmployees(ctx, orgID)
	if err != nil {
		return nil, &ProviderError{Provider: "employees", OrganizationID: orgID, Err: err}
	}
	// widened a day each side; shifts are filtered by local date below
	shiftRecords, err := e.Shifts.WorkedShifts(ctx, orgID, period.Start.AddDate(0, 0, -1), period.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, &ProviderError{Provider: "shifts", OrganizationID: orgID, Err: err}
	}

	employees := make([]Employee, 0, len(empRecords))
	for _, r := range empRecords {
		employees = append(employees, r.ToEmployee())
	}
	sort.SliceStable(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].ID < employees[j].ID
	})

	byEmail := make(map[string]EmployeeID, len(employees))
	for _, emp := range employees {
		if k := EmailKey(emp.Email); k != "" {
			if _, dup := byEmail[k]; !dup {
				byEmail[k] = emp.ID
			}
		}
	}
	grouped := make(map[EmployeeID][]Shift, len(employees))
	dropped := 0
	for _, r := range shiftRecords {
		id, ok := byEmail[EmailKey(r.EmployeeEmail)]
		if !ok || (!r.StartTime.IsZero() && !period.ContainsDay(inLocation(r.StartTime, e.Config.Location))) {
			dropped++
			continue
		}
		grouped[id] = append(grouped[id], r.ToShift(id))
	}

	cfg := e.Award.ClassifierConfig()
	cfg.Location = e.Config.Location
	weeks := period.Weeks()

	results := make([]EmployeeResult, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, emp := range employees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.employeeResult(emp, grouped[emp.ID], cfg, weeks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := fold(orgID, period, results)
	log.Debug("payroll summarized",
		zap.Int("employees", summary.Totals.EmployeeCount),
		zap.Int("shifts", len(shiftRecords)-dropped),
		zap.Int("dropped_shifts", dropped),
		zap.Int("anomalies", len(summary.Anomalies)),
		zap.String("gross", summary.Totals.GrossPay.StringFixed(2)))
	return summary, nil
}

func (e *Engine) employeeResult(emp Employee, shifts []Shift, cfg ClassifierConfig, weeks int) EmployeeResult {
	sort.SliceStable(shifts, func(i, j int) bool { return shifts[i].StartTime.Before(shifts[j].StartTime) })

	res := computeEarnings(emp, shifts, e.Award, cfg, weeks)
	res.Anomalies = append(res.Anomalies, CheckShiftPatterns(shifts)...)
	for i := range res.Anomalies {
		res.Anomalies[i].EmployeeID = emp.ID
		res.Anomalies[i].EmployeeName = emp.Name
	}
	return res
}

func fold(orgID OrganizationID, period Period, results []EmployeeResult) *Summary {
	s := &Summary{
		OrganizationID: orgID,
		Period:         period,
		Employees:      results,
		Anomalies:      []Anomaly{},
	}
	s.Totals.EmployeeCount = len(results)
	for _, r := range results {
		s.Totals.GrossPay = s.Totals.GrossPay.Add(r.GrossPay)
		s.Totals.Hours = s.Totals.Hours.Add(r.HoursWorked)
		s.Totals.Tax = s.Totals.Tax.Add(r.Tax)
		s.Totals.Super = s.Totals.Super.Add(r.Super)
		s.Breakdown = s.Breakdown.Combine(r.Breakdown)
		s.Anomalies = append(s.Anomalies, r.Anomalies...)
	}

	s.Totals.GrossPay = s.Totals.GrossPay.Round(2)
	s.Totals.Hours = s.Totals.Hours.Round(2)
	s.Totals.Tax = s.Totals.Tax.Round(2)
	s.Totals.Super = s.Totals.Super.Round(2)
	s.Breakdown = EarningsBreakdown{Buckets: s.Breakdown.Round(2)}
	return s
}

func (e *Engine) workers() int {
	if e.Config.Workers > 0 {
		return e.Config.Workers
	}
	return defaultWorkers
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
