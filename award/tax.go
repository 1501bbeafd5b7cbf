package award

import "github.com/shopspring/decimal"

// =============================================================================
// PAYG WITHHOLDING
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultTaxTable is the resident individual scale used for weekly pay runs.
func DefaultTaxTable() TaxTable {
	return TaxTable{
		WeeksPerYear: decimal.NewFromInt(52),
		Brackets: []TaxBracket{
			{From: dec("0"), Rate: dec("0")},
			{From: dec("18200"), Rate: dec("0.19")},
			{From: dec("45000"), Rate: dec("0.325")},
			{From: dec("120000"), Rate: dec("0.37")},
			{From: dec("180000"), Rate: dec("0.45")},
		},
		NoThresholdRate: dec("0.325"),
	}
}

// Withholding returns whole-dollar tax withheld from one week's gross pay
// using the default scale.
func Withholding(weeklyGross decimal.Decimal, claimsThreshold bool) decimal.Decimal {
	return DefaultTaxTable().Withholding(weeklyGross, claimsThreshold)
}

// Withholding annualizes weekly gross, taxes it and returns the weekly share
// rounded to whole dollars. Non-positive gross withholds nothing.
func (t TaxTable) Withholding(weeklyGross decimal.Decimal, claimsThreshold bool) decimal.Decimal {
	if !weeklyGross.IsPositive() {
		return decimal.Zero
	}
	weeks := t.WeeksPerYear
	if !weeks.IsPositive() {
		weeks = decimal.NewFromInt(52)
	}
	annual := weeklyGross.Mul(weeks)

	var tax decimal.Decimal
	if claimsThreshold {
		tax = t.annualTax(annual)
	} else {
		tax = annual.Mul(t.NoThresholdRate)
	}
	return tax.Div(weeks).Round(0)
}

// ForWeeks spreads gross over weeks, withholds per week and multiplies back.
func (t TaxTable) ForWeeks(gross decimal.Decimal, claimsThreshold bool, weeks int) decimal.Decimal {
	if weeks <= 1 {
		return t.Withholding(gross, claimsThreshold)
	}
	n := decimal.NewFromInt(int64(weeks))
	return t.Withholding(gross.Div(n), claimsThreshold).Mul(n)
}

// annualTax applies each bracket's rate to the slice of income it covers.
func (t TaxTable) annualTax(annual decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	for i, b := range t.Brackets {
		if !annual.GreaterThan(b.From) {
			break
		}
		upper := annual
		if i+1 < len(t.Brackets) {
			upper = decimal.Min(annual, t.Brackets[i+1].From)
		}
		tax = tax.Add(upper.Sub(b.From).Mul(b.Rate))
	}
	return tax
}
