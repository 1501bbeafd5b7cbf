package award

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE TABLE - Multipliers applied to the permanent base rate
// =============================================================================

// RateTable maps each category to its multiplier of the base hourly rate.
type RateTable map[Category]decimal.Decimal

// Multiplier returns the multiplier for c, or zero when the table lacks it.
func (rt RateTable) Multiplier(c Category) decimal.Decimal {
	if m, ok := rt[c]; ok {
		return m
	}
	return decimal.Zero
}

// Validate checks every category is present and non-negative.
func (rt RateTable) Validate(name string) error {
	for _, c := range Categories {
		m, ok := rt[c]
		if !ok {
			return &AwardError{Field: name + "." + string(c), Message: "missing multiplier"}
		}
		if m.IsNegative() {
			return &AwardError{Field: name + "." + string(c), Message: "negative multiplier"}
		}
	}
	return nil
}

// =============================================================================
// TAX TABLE - Annual progressive brackets
// =============================================================================

// TaxBracket taxes annual income above From at Rate, up to the next bracket.
type TaxBracket struct {
	From decimal.Decimal
	Rate decimal.Decimal
}

// TaxTable describes PAYG withholding for a weekly pay cycle.
type TaxTable struct {
	WeeksPerYear decimal.Decimal
	Brackets     []TaxBracket // ascending by From; first From is 0

	// NoThresholdRate is a flat approximation applied to annualized pay
	// when the tax-free threshold is not claimed.
	NoThresholdRate decimal.Decimal
}

// Validate checks brackets start at zero and ascend.
func (t TaxTable) Validate() error {
	if !t.WeeksPerYear.IsPositive() {
		return &AwardError{Field: "tax.weeks_per_year", Message: "must be positive"}
	}
	if len(t.Brackets) == 0 {
		return &AwardError{Field: "tax.brackets", Message: "at least one bracket required"}
	}
	if !t.Brackets[0].From.IsZero() {
		return &AwardError{Field: "tax.brackets[0].from", Message: "first bracket must start at 0"}
	}
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() {
			return &AwardError{Field: fmt.Sprintf("tax.brackets[%d].rate", i), Message: "negative rate"}
		}
		if i > 0 && !b.From.GreaterThan(t.Brackets[i-1].From) {
			return &AwardError{Field: fmt.Sprintf("tax.brackets[%d].from", i), Message: "brackets must ascend"}
		}
	}
	if t.NoThresholdRate.IsNegative() {
		return &AwardError{Field: "tax.no_threshold_rate", Message: "negative rate"}
	}
	return nil
}

// =============================================================================
// AWARD - Everything needed to price a pay run
// =============================================================================

// Award bundles the pay rules of one industrial award.
type Award struct {
	Name             string
	StandardDayHours decimal.Decimal
	Permanent        RateTable
	Casual           RateTable
	Tax              TaxTable
	SuperRate        decimal.Decimal
}

// RatesFor selects the multiplier column for an employment type.
func (a Award) RatesFor(t EmploymentType) RateTable {
	if t == Casual {
		return a.Casual
	}
	return a.Permanent
}

// ClassifierConfig derives classifier settings from the award.
func (a Award) ClassifierConfig() ClassifierConfig {
	cfg := DefaultClassifierConfig()
	if a.StandardDayHours.IsPositive() {
		cfg.StandardDayHours = a.StandardDayHours
	}
	return cfg
}

// Validate checks the whole award.
func (a Award) Validate() error {
	if a.StandardDayHours.IsNegative() {
		return &AwardError{Field: "standard_day_hours", Message: "negative hours"}
	}
	if err := a.Permanent.Validate("permanent"); err != nil {
		return err
	}
	if err := a.Casual.Validate("casual"); err != nil {
		return err
	}
	if err := a.Tax.Validate(); err != nil {
		return err
	}
	if a.SuperRate.IsNegative() {
		return &AwardError{Field: "super_rate", Message: "negative rate"}
	}
	return nil
}
