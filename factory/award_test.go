package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/schads"
)

func equalDec(t *testing.T, want, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestParseAward_BuiltInDocumentMatchesGoValue(t *testing.T) {
	// GIVEN: The embedded SCHADS document
	// WHEN: Parsing it
	// THEN: Every multiplier, bracket and rate matches schads.Award()

	got, err := factory.ParseAward(schads.YAML)
	require.NoError(t, err)
	want := schads.Award()

	assert.Equal(t, want.Name, got.Name)
	equalDec(t, want.StandardDayHours, got.StandardDayHours, "standard_day_hours")
	equalDec(t, want.SuperRate, got.SuperRate, "super_rate")
	for _, c := range award.Categories {
		equalDec(t, want.Permanent[c], got.Permanent[c], "permanent."+string(c))
		equalDec(t, want.Casual[c], got.Casual[c], "casual."+string(c))
	}
	require.Len(t, got.Tax.Brackets, len(want.Tax.Brackets))
	for i := range want.Tax.Brackets {
		equalDec(t, want.Tax.Brackets[i].From, got.Tax.Brackets[i].From, "bracket from")
		equalDec(t, want.Tax.Brackets[i].Rate, got.Tax.Brackets[i].Rate, "bracket rate")
	}
	equalDec(t, want.Tax.NoThresholdRate, got.Tax.NoThresholdRate, "no_threshold_rate")
}

const customAward = `
name: Custom
standard_day_hours: 7.6
rates:
  permanent: {base: 1, afternoon: 1.1, night: 1.2, saturday: 1.5, sunday: 2, public_holiday: 2.5, overtime_first_2h: 1.5, overtime_after_2h: 2}
  casual: {base: 1.25, afternoon: 1.35, night: 1.45, saturday: 1.75, sunday: 2.25, public_holiday: 2.75, overtime_first_2h: 1.5, overtime_after_2h: 2}
`

func TestParseAward_DefaultsTaxAndSuper(t *testing.T) {
	a, err := factory.ParseAward([]byte(customAward))
	require.NoError(t, err)

	equalDec(t, decimal.RequireFromString("7.6"), a.StandardDayHours, "standard_day_hours")
	equalDec(t, award.DefaultSuperRate, a.SuperRate, "super_rate")
	assert.Len(t, a.Tax.Brackets, len(award.DefaultTaxTable().Brackets))
	equalDec(t, decimal.RequireFromString("1.1"), a.Permanent.Multiplier(award.CategoryAfternoon), "afternoon")
}

func TestParseAward_Errors(t *testing.T) {
	cases := map[string]string{
		"not yaml":         "rates: [unclosed",
		"missing category": "rates:\n  permanent: {base: 1}\n  casual: {base: 1.25}\n",
		"unknown category": "rates:\n  permanent:\n    evening: 1.3\n",
		"non-number":       "super_rate: lots\n",
		"negative bracket": customAward + "tax:\n  brackets:\n    - {from: 0, rate: -0.1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := factory.ParseAward([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseAward_ValidationErrorsAreInvalidAward(t *testing.T) {
	_, err := factory.ParseAward([]byte("rates:\n  permanent: {base: 1}\n  casual: {base: 1.25}\n"))

	assert.ErrorIs(t, err, award.ErrInvalidAward)
}

func TestLoadAwardFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "award.yaml")
	require.NoError(t, os.WriteFile(path, schads.YAML, 0o600))

	a, err := factory.LoadAwardFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SCHADS", a.Name)

	_, err = factory.LoadAwardFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
