// Package schads defines the built-in SCHADS award.
package schads

import (
	_ "embed"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/award"
)

// YAML is the award as a configuration document, loadable with
// factory.ParseAward.
//
//go:embed schads.yaml
var YAML []byte

func m(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Award returns a fresh copy of the SCHADS award.
func Award() award.Award {
	return award.Award{
		Name:             "SCHADS",
		StandardDayHours: m("8"),
		Permanent: award.RateTable{
			award.CategoryBase:            m("1.00"),
			award.CategoryAfternoon:       m("1.125"),
			award.CategoryNight:           m("1.15"),
			award.CategorySaturday:        m("1.50"),
			award.CategorySunday:          m("2.00"),
			award.CategoryPublicHoliday:   m("2.50"),
			award.CategoryOvertimeFirst2h: m("1.50"),
			award.CategoryOvertimeAfter2h: m("2.00"),
		},
		Casual: award.RateTable{
			award.CategoryBase:            m("1.25"),
			award.CategoryAfternoon:       m("1.375"),
			award.CategoryNight:           m("1.40"),
			award.CategorySaturday:        m("1.75"),
			award.CategorySunday:          m("2.25"),
			award.CategoryPublicHoliday:   m("2.75"),
			award.CategoryOvertimeFirst2h: m("1.50"),
			award.CategoryOvertimeAfter2h: m("2.00"),
		},
		Tax:       award.DefaultTaxTable(),
		SuperRate: award.DefaultSuperRate,
	}
}
