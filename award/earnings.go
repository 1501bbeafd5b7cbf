package award

import "github.com/shopspring/decimal"

// =============================================================================
// EARNINGS AGGREGATOR
// =============================================================================

// ComputeEmployeeEarnings prices one week of shifts for an employee.
// Shifts that classify to zero hours contribute nothing. Per-shift
// anomalies are collected alongside; pattern checks across shifts are left
// to the caller (see Engine.Summarize).
func ComputeEmployeeEarnings(employee Employee, shifts []Shift, a Award) EmployeeResult {
	return computeEarnings(employee, shifts, a, a.ClassifierConfig(), 1)
}

func computeEarnings(employee Employee, shifts []Shift, a Award, cfg ClassifierConfig, weeks int) EmployeeResult {
	rates := a.RatesFor(employee.EmploymentType)
	rate := employee.BaseHourlyRate
	if rate.IsNegative() {
		rate = decimal.Zero
	}

	var hours HoursBreakdown
	var earnings EarningsBreakdown
	var anomalies []Anomaly

	for _, shift := range shifts {
		h := Classify(shift, cfg)
		hours = hours.Combine(h)
		earnings = earnings.Combine(PriceHours(h, rate, rates))
		anomalies = append(anomalies, CheckShift(shift)...)
	}

	gross := earnings.Total().Round(2)
	return EmployeeResult{
		EmployeeID:  employee.ID,
		Name:        employee.Name,
		Email:       employee.Email,
		HoursWorked: hours.Total,
		GrossPay:    gross,
		Tax:         a.Tax.ForWeeks(gross, !employee.NoTaxFreeThreshold, weeks),
		Super:       SuperAt(earnings.Ordinary(), a.SuperRate),
		Breakdown:   earnings,
		Hours:       hours,
		Anomalies:   anomalies,
	}
}

// PriceHours multiplies every bucket by rate x its multiplier. Nothing is
// rounded here.
func PriceHours(h HoursBreakdown, rate decimal.Decimal, rates RateTable) EarningsBreakdown {
	var out Buckets
	for _, c := range Categories {
		hrs := h.Get(c)
		if hrs.IsZero() {
			continue
		}
		out = out.With(c, hrs.Mul(rate).Mul(rates.Multiplier(c)))
	}
	return EarningsBreakdown{Buckets: out}
}
