package award_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/schads"
)

func employee(t award.EmploymentType) award.Employee {
	return award.Employee{ID: "emp-1", Name: "Alex Doe", Email: "alex@example.com", BaseHourlyRate: dec("30"), EmploymentType: t}
}

func TestComputeEmployeeEarnings_Scenarios(t *testing.T) {
	// GIVEN: A $30/h employee working one 8 hour shift
	// WHEN: Pricing it as permanent and as casual
	// THEN: Gross matches the award multipliers

	holiday := shift("ph", at(5, 9, 0), at(5, 17, 0), 0)
	holiday.IsPublicHoliday = true

	cases := []struct {
		name      string
		shift     award.Shift
		permanent string
		casual    string
	}{
		{"weekday day", shift("s", at(3, 9, 0), at(3, 17, 0), 0), "240", "300"},
		{"weekday afternoon", shift("s", at(3, 14, 0), at(3, 22, 0), 0), "270", "330"},
		{"weekday night", shift("s", at(3, 22, 0), at(4, 6, 0), 0), "276", "336"},
		{"saturday", shift("s", at(8, 9, 0), at(8, 17, 0), 0), "360", "420"},
		{"sunday", shift("s", at(9, 9, 0), at(9, 17, 0), 0), "480", "540"},
		{"public holiday", holiday, "600", "660"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perm := award.ComputeEmployeeEarnings(employee(award.Permanent), []award.Shift{tc.shift}, schads.Award())
			cas := award.ComputeEmployeeEarnings(employee(award.Casual), []award.Shift{tc.shift}, schads.Award())

			assertDec(t, tc.permanent, perm.GrossPay)
			assertDec(t, tc.casual, cas.GrossPay)
			assertDec(t, "8", perm.HoursWorked)
		})
	}
}

func TestComputeEmployeeEarnings_OvertimeNotLoadingStacked(t *testing.T) {
	// GIVEN: Casual working 11 hours on a weekday (09:00-20:00)
	// WHEN: Pricing
	// THEN: Ordinary at casual base, overtime at flat 1.5x / 2x of the base rate

	res := award.ComputeEmployeeEarnings(employee(award.Casual), []award.Shift{
		shift("s1", at(3, 9, 0), at(3, 20, 0), 0),
	}, schads.Award())

	assertDec(t, "300", res.Breakdown.Base)
	assertDec(t, "90", res.Breakdown.OvertimeFirst2h)
	assertDec(t, "60", res.Breakdown.OvertimeAfter2h)
	assertDec(t, "450", res.GrossPay)
}

func TestComputeEmployeeEarnings_TaxAndSuperOnOrdinaryEarnings(t *testing.T) {
	// GIVEN: Permanent working a 10.5h and a 7.5h weekday
	// WHEN: Pricing
	// THEN: Super applies to ordinary time earnings only

	res := award.ComputeEmployeeEarnings(employee(award.Permanent), []award.Shift{
		shift("s1", at(3, 9, 0), at(3, 20, 0), 30),
		shift("s2", at(4, 9, 0), at(4, 17, 0), 30),
	}, schads.Award())

	// 10.5h + 7.5h: 15.5 ordinary, 2 first tier, 0.5 second tier
	assertDec(t, "18", res.HoursWorked)
	assertDec(t, "465", res.Breakdown.Base)
	assertDec(t, "585", res.GrossPay)
	assertDec(t, "465", res.Breakdown.Ordinary())
	assertDec(t, "53.48", res.Super)
	// (30420 - 18200) x 19% / 52 = 44.65
	assertDec(t, "45", res.Tax)
}

func TestComputeEmployeeEarnings_GrossEqualsBreakdownTotal(t *testing.T) {
	shifts := []award.Shift{
		shift("a", at(3, 6, 10), at(3, 15, 47), 17),
		shift("b", at(4, 13, 3), at(4, 23, 29), 41),
		shift("c", at(8, 7, 11), at(8, 19, 2), 0),
		shift("d", at(9, 21, 0), at(10, 7, 13), 45),
	}
	emp := employee(award.Casual)
	emp.BaseHourlyRate = dec("31.37")

	res := award.ComputeEmployeeEarnings(emp, shifts, schads.Award())

	diff := res.GrossPay.Sub(res.Breakdown.Total()).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")), "gross %s vs breakdown %s", res.GrossPay, res.Breakdown.Total())
	assert.True(t, res.Tax.GreaterThanOrEqual(dec("0")))
	assert.True(t, res.Super.GreaterThanOrEqual(dec("0")))
}

func TestComputeEmployeeEarnings_GrossRoundsExactTotal(t *testing.T) {
	// GIVEN: Base 10.005 and Saturday 15.0075 at $10.005/h
	// WHEN: Pricing both shifts
	// THEN: Gross is the exact 25.0125 rounded, while rounding each bucket gives 25.02

	shifts := []award.Shift{
		shift("mon", at(3, 9, 0), at(3, 10, 0), 0),
		shift("sat", at(8, 9, 0), at(8, 10, 0), 0),
	}
	emp := employee(award.Permanent)
	emp.BaseHourlyRate = dec("10.005")

	res := award.ComputeEmployeeEarnings(emp, shifts, schads.Award())

	assertDec(t, "25.0125", res.Breakdown.Total())
	assertDec(t, "25.01", res.GrossPay)
	assertDec(t, "25.02", res.Breakdown.Round(2).Sum())
}

func TestComputeEmployeeEarnings_CollectsShiftAnomalies(t *testing.T) {
	res := award.ComputeEmployeeEarnings(employee(award.Permanent), []award.Shift{
		shift("long", at(3, 6, 0), at(3, 19, 0), 0),
	}, schads.Award())

	types := make([]award.AnomalyType, 0, len(res.Anomalies))
	for _, a := range res.Anomalies {
		types = append(types, a.Type)
	}
	assert.ElementsMatch(t, []award.AnomalyType{award.AnomalyExcessiveHours, award.AnomalyInsufficientBreak}, types)
}

func TestComputeEmployeeEarnings_NoShifts_ZeroFigures(t *testing.T) {
	res := award.ComputeEmployeeEarnings(employee(award.Permanent), nil, schads.Award())

	assert.True(t, res.GrossPay.IsZero())
	assert.True(t, res.Tax.IsZero())
	assert.True(t, res.Super.IsZero())
	assert.Empty(t, res.Anomalies)
}

func TestAward_Validate(t *testing.T) {
	assert.NoError(t, schads.Award().Validate())

	broken := schads.Award()
	delete(broken.Casual, award.CategoryNight)
	assert.ErrorIs(t, broken.Validate(), award.ErrInvalidAward)

	negative := schads.Award()
	negative.SuperRate = dec("-0.1")
	assert.ErrorIs(t, negative.Validate(), award.ErrInvalidAward)
}

func TestAward_RatesFor_UnknownTypeIsPermanent(t *testing.T) {
	a := schads.Award()

	assert.Equal(t, award.Permanent, award.ParseEmploymentType("part-time"))
	assert.Equal(t, award.Casual, award.ParseEmploymentType(" Casual "))
	assertDec(t, "1", a.RatesFor(award.ParseEmploymentType("")).Multiplier(award.CategoryBase))
}
