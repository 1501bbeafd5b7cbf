/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Populates the store with a small workforce and one pay week of shifts
  that demonstrate a specific part of the award. Every scenario uses the
  organization "demo", the week Mon 2025-03-03 .. Sun 2025-03-09 and two
  employees on $30/h: Pat (permanent) and Cas (casual).

AVAILABLE SCENARIOS:
  weekday-day:        Mon 09:00-17:30, 30m break       (240.00 / 300.00)
  weekday-afternoon:  Mon 14:00-22:30, 30m break       (270.00 / 330.00)
  weekday-night:      Mon 22:00-06:30, 30m break       (276.00 / 336.00)
  saturday:           Sat 09:00-17:30, 30m break       (360.00 / 420.00)
  sunday:             Sun 09:00-17:30, 30m break       (480.00 / 540.00)
  public-holiday:     Mon 09:00-17:30 public holiday   (600.00 / 660.00)
  overtime-week:      Long weekdays into both overtime tiers
  anomaly-week:       Long, unbroken, short-rest and overlapping shifts

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "saturday"}

  GET /api/organizations/demo/payroll?start=2025-03-03&end=2025-03-09

NOTE:
  Loading a scenario resets the store. Only use in development/demo
  environments.

SEE ALSO:
  - handlers.go: Payroll endpoints that read the loaded data
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const (
	demoOrg       = "demo"
	demoWeekStart = "2025-03-03"
	demoWeekEnd   = "2025-03-09"

	patEmail = "pat@demo.example"
	casEmail = "cas@demo.example"
)

// shiftSpec is a shift on a day of the demo week (0 = Monday).
type shiftSpec struct {
	id       string
	email    string
	day      int
	start    string // HH:MM
	end      string // HH:MM, earlier than start means next day
	breakMin int
	holiday  bool
}

type scenario struct {
	ScenarioDTO
	shifts []shiftSpec
}

// both gives Pat and Cas the same shift.
func both(id string, day int, start, end string, breakMin int, holiday bool) []shiftSpec {
	return []shiftSpec{
		{id: id + "-pat", email: patEmail, day: day, start: start, end: end, breakMin: breakMin, holiday: holiday},
		{id: id + "-cas", email: casEmail, day: day, start: start, end: end, breakMin: breakMin, holiday: holiday},
	}
}

func demo(id, name, description string, shifts []shiftSpec) scenario {
	return scenario{
		ScenarioDTO: ScenarioDTO{
			ID:             id,
			Name:           name,
			Description:    description,
			OrganizationID: demoOrg,
			Start:          demoWeekStart,
			End:            demoWeekEnd,
		},
		shifts: shifts,
	}
}

var scenarios = []scenario{
	demo("weekday-day", "Weekday Day Shift",
		"Monday 09:00-17:30 with a 30 minute break, all base rate",
		both("mon-day", 0, "09:00", "17:30", 30, false)),
	demo("weekday-afternoon", "Weekday Afternoon Shift",
		"Monday 14:00-22:30, ends after 20:00 so the afternoon loading applies",
		both("mon-pm", 0, "14:00", "22:30", 30, false)),
	demo("weekday-night", "Weekday Night Shift",
		"Monday 22:00 to Tuesday 06:30, crosses midnight so the night loading applies",
		both("mon-night", 0, "22:00", "06:30", 30, false)),
	demo("saturday", "Saturday Shift",
		"Saturday 09:00-17:30 at the Saturday rate",
		both("sat", 5, "09:00", "17:30", 30, false)),
	demo("sunday", "Sunday Shift",
		"Sunday 09:00-17:30 at the Sunday rate",
		both("sun", 6, "09:00", "17:30", 30, false)),
	demo("public-holiday", "Public Holiday Shift",
		"Monday 09:00-17:30 flagged as a public holiday",
		both("ph", 0, "09:00", "17:30", 30, true)),
	demo("overtime-week", "Overtime Week",
		"Weekday shifts of 9, 10 and 11 worked hours reaching both overtime tiers",
		append(append(
			both("ot-mon", 0, "08:00", "17:30", 30, false),
			both("ot-tue", 1, "08:00", "18:30", 30, false)...),
			both("ot-wed", 2, "08:00", "19:30", 30, false)...)),
	demo("anomaly-week", "Anomaly Week",
		"A 13 hour shift without a break, a short rest gap and overlapping shifts",
		[]shiftSpec{
			{id: "anom-long", email: patEmail, day: 0, start: "06:00", end: "19:00"},
			{id: "anom-early", email: patEmail, day: 1, start: "02:00", end: "10:30", breakMin: 30},
			{id: "anom-a", email: casEmail, day: 2, start: "09:00", end: "13:00"},
			{id: "anom-b", email: casEmail, day: 2, start: "12:00", end: "16:00"},
		}),
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario resets the store and loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.loadScenario(ctx, sc); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":          "loaded",
		"scenario":        sc.ID,
		"organization_id": sc.OrganizationID,
		"start":           sc.Start,
		"end":             sc.End,
	})
}

// =============================================================================
// LOADER
// =============================================================================

func (h *Handler) loadScenario(ctx context.Context, sc scenario) error {
	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	if err := h.Cache.Clear(ctx); err != nil {
		h.Logger.Warn("summary cache clear failed", zap.Error(err))
	}

	if err := h.Store.SaveOrganization(ctx, store.Organization{ID: sc.OrganizationID, Name: "Demo Care Services"}); err != nil {
		return err
	}

	employees := []store.Employee{
		{ID: "emp-pat", FirstName: "Pat", LastName: "Permanent", Email: patEmail, PayRate: "30.00", EmploymentType: "full-time"},
		{ID: "emp-cas", FirstName: "Cas", LastName: "Casual", Email: casEmail, PayRate: "30.00", EmploymentType: "casual"},
	}
	for _, e := range employees {
		e.OrganizationID = sc.OrganizationID
		e.Active = true
		if _, err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	weekStart, err := time.Parse(dateLayout, sc.Start)
	if err != nil {
		return err
	}
	for _, ss := range sc.shifts {
		shift, err := ss.build(sc.OrganizationID, weekStart, h.location())
		if err != nil {
			return fmt.Errorf("shift %s: %w", ss.id, err)
		}
		if _, err := h.Store.SaveShift(ctx, shift); err != nil {
			return err
		}
	}

	h.Logger.Info("scenario loaded", zap.String("scenario", sc.ID), zap.Int("shifts", len(sc.shifts)))
	return nil
}

func (s shiftSpec) build(orgID string, weekStart time.Time, loc *time.Location) (store.Shift, error) {
	day := weekStart.AddDate(0, 0, s.day)
	start, err := clock(day, s.start, loc)
	if err != nil {
		return store.Shift{}, err
	}
	end, err := clock(day, s.end, loc)
	if err != nil {
		return store.Shift{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return store.Shift{
		ID:              s.id,
		OrganizationID:  orgID,
		EmployeeEmail:   s.email,
		StartTime:       start,
		EndTime:         end,
		BreakMinutes:    s.breakMin,
		IsPublicHoliday: s.holiday,
		Active:          true,
	}, nil
}

func clock(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// location is the engine's configured zone, UTC when none is set.
func (h *Handler) location() *time.Location {
	if h.Engine != nil && h.Engine.Config.Location != nil {
		return h.Engine.Config.Location
	}
	return time.UTC
}
