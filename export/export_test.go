package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/export"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testSummary(t *testing.T) *award.Summary {
	t.Helper()
	period, err := award.ParsePeriod("2025-03-03", "2025-03-09")
	require.NoError(t, err)

	return &award.Summary{
		OrganizationID: "org-1",
		Period:         period,
		Employees: []award.EmployeeResult{
			{EmployeeID: "e1", Name: "Ben Casual", Email: "ben@example.com", HoursWorked: dec("8"), GrossPay: dec("330"), Tax: dec("0"), Super: dec("37.95")},
			{EmployeeID: "e2", Name: "Zoe Permanent", Email: "zoe@example.com", HoursWorked: dec("16"), GrossPay: dec("600"), Tax: dec("48"), Super: dec("69")},
		},
		Totals: award.Totals{EmployeeCount: 2, Hours: dec("24"), GrossPay: dec("930"), Tax: dec("48"), Super: dec("106.95")},
		Breakdown: award.EarningsBreakdown{Buckets: award.Buckets{
			Base: dec("240"), Afternoon: dec("330"), Saturday: dec("360"),
		}},
		Anomalies: []award.Anomaly{
			{Type: award.AnomalyShortBreak, Severity: award.SeverityMedium, EmployeeName: "Zoe Permanent", Description: "only 5h0m0s between shifts", ShiftIDs: []award.ShiftID{"z1", "z2"}},
		},
	}
}

func TestCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, testSummary(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Employee,Email,Hours,Gross Pay,Tax,Super", lines[0])
	assert.Equal(t, "Ben Casual,ben@example.com,8.00,330.00,0.00,37.95", lines[1])

	var rows []export.Row
	require.NoError(t, gocsv.UnmarshalBytes(buf.Bytes(), &rows))
	assert.Equal(t, "600.00", rows[1].GrossPay)
}

func TestCSV_EmptySummaryWritesHeader(t *testing.T) {
	s := testSummary(t)
	s.Employees = nil

	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, s))

	assert.Equal(t, "Employee,Email,Hours,Gross Pay,Tax,Super", strings.TrimSpace(buf.String()))
}

func TestXLSX_Sheets(t *testing.T) {
	// GIVEN: A summary with two employees and one anomaly
	// WHEN: Writing the workbook
	// THEN: Payroll has header, rows and totals; breakdown and anomalies are filled

	var buf bytes.Buffer
	require.NoError(t, export.XLSX(&buf, testSummary(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payroll")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Gross Pay", rows[0][3])
	assert.Equal(t, "Zoe Permanent", rows[2][0])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "930", rows[3][3])

	breakdown, err := f.GetRows("Breakdown")
	require.NoError(t, err)
	assert.Len(t, breakdown, len(award.Categories)+1)
	assert.Equal(t, "afternoon", breakdown[2][0])

	anomalies, err := f.GetRows("Anomalies")
	require.NoError(t, err)
	require.Len(t, anomalies, 2)
	assert.Equal(t, "short_break", anomalies[1][1])
	assert.Equal(t, "z1, z2", anomalies[1][4])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "payroll_org-1_2025-03-03_2025-03-09.csv", export.Filename(testSummary(t), "csv"))
}
