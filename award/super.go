package award

import "github.com/shopspring/decimal"

// DefaultSuperRate is the superannuation guarantee rate.
var DefaultSuperRate = decimal.RequireFromString("0.115")

// SuperGuarantee returns the employer contribution on ordinary time
// earnings at the default rate.
func SuperGuarantee(ordinaryEarnings decimal.Decimal) decimal.Decimal {
	return SuperAt(ordinaryEarnings, DefaultSuperRate)
}

// SuperAt returns ordinaryEarnings x rate rounded to cents. Non-positive
// earnings attract nothing.
func SuperAt(ordinaryEarnings, rate decimal.Decimal) decimal.Decimal {
	if !ordinaryEarnings.IsPositive() || !rate.IsPositive() {
		return decimal.Zero
	}
	return ordinaryEarnings.Mul(rate).Round(2)
}
