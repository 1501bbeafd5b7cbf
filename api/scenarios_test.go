package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenarios(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []ScenarioDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, len(scenarios))
	for _, d := range dtos {
		assert.Equal(t, "demo", d.OrganizationID)
		assert.Equal(t, "2025-03-03", d.Start)
	}
}

func TestLoadScenario_RatesAtThirtyDollars(t *testing.T) {
	// GIVEN: Each single-shift scenario
	// WHEN: Loaded and summarized for the demo week
	// THEN: Casual and permanent gross pay match the award at $30/h

	tests := []struct {
		scenario  string
		casual    string
		permanent string
	}{
		{"weekday-day", "300.00", "240.00"},
		{"weekday-afternoon", "330.00", "270.00"},
		{"weekday-night", "336.00", "276.00"},
		{"saturday", "420.00", "360.00"},
		{"sunday", "540.00", "480.00"},
		{"public-holiday", "660.00", "600.00"},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: tt.scenario})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			dto := ts.payroll(t, "demo")

			require.Len(t, dto.Employees, 2)
			assert.Equal(t, "Cas Casual", dto.Employees[0].Name)
			assert.Equal(t, tt.casual, dto.Employees[0].GrossPay)
			assert.Equal(t, "Pat Permanent", dto.Employees[1].Name)
			assert.Equal(t, tt.permanent, dto.Employees[1].GrossPay)
			assert.Equal(t, "16.00", dto.Totals.Hours)
			assert.Empty(t, dto.Anomalies)
		})
	}
}

func TestLoadScenario_OvertimeWeek(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "overtime-week"}).Code)

	dto := ts.payroll(t, "demo")

	require.Len(t, dto.Employees, 2)
	cas, pat := dto.Employees[0], dto.Employees[1]

	assert.Equal(t, "24.00", pat.Hours.Base)
	assert.Equal(t, "5.00", pat.Hours.OvertimeFirst2h)
	assert.Equal(t, "1.00", pat.Hours.OvertimeAfter2h)
	assert.Equal(t, "1005.00", pat.GrossPay)
	// super on ordinary time only
	assert.Equal(t, "82.80", pat.Super)

	assert.Equal(t, "1185.00", cas.GrossPay)
	assert.Equal(t, "2190.00", dto.Totals.GrossPay)
}

func TestLoadScenario_AnomalyWeek(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "anomaly-week"}).Code)

	dto := ts.payroll(t, "demo")

	types := map[string][]string{}
	for _, a := range dto.Anomalies {
		types[a.EmployeeName] = append(types[a.EmployeeName], a.Type)
	}
	assert.Equal(t, []string{"overlapping_shifts"}, types["Cas Casual"])
	assert.ElementsMatch(t, []string{"excessive_hours", "insufficient_break", "short_break"}, types["Pat Permanent"])

	require.NotEmpty(t, dto.Anomalies)
	assert.Equal(t, "high", dto.Anomalies[0].Severity)
	assert.Equal(t, []string{"anom-a", "anom-b"}, dto.Anomalies[0].ShiftIDs)
}

func TestLoadScenario_ReplacesPreviousData(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "sunday"}).Code)
	assert.Equal(t, "1020.00", ts.payroll(t, "demo").Totals.GrossPay)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "weekday-day"}).Code)
	assert.Equal(t, "540.00", ts.payroll(t, "demo").Totals.GrossPay)
}

func TestLoadScenario_Unknown(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "no-such-thing"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
