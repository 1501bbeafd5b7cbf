/*
Package factory provides YAML to Go award conversion.

PURPOSE:
  Converts award definitions into award.Award values so multipliers, tax
  scales and the super rate can change without a rebuild.

YAML SCHEMA:
  name: SCHADS
  standard_day_hours: 8
  super_rate: 0.115
  rates:
    permanent: { base: 1.00, afternoon: 1.125, ... }
    casual:    { base: 1.25, afternoon: 1.375, ... }
  tax:
    weeks_per_year: 52
    no_threshold_rate: 0.325
    brackets:
      - { from: 0, rate: 0 }
      - { from: 18200, rate: 0.19 }

  Numbers are read from their literal text, so 1.125 stays exact. Every
  category must be present in both rate tables. tax, super_rate and
  standard_day_hours fall back to the built-in defaults when omitted.

USAGE:
  a, err := factory.ParseAward(schads.YAML)
  a, err := factory.LoadAwardFile("awards/schads.yaml")

SEE ALSO:
  - award/rates.go: Award, RateTable and TaxTable
  - schads/schads.yaml: The built-in award document
*/
package factory

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payroll-engine/award"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

// Number is a decimal read from a YAML scalar's literal text.
type Number struct {
	decimal.Decimal
	Set bool
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", value.Line, value.Value)
	}
	n.Decimal, n.Set = d, true
	return nil
}

// AwardYAML is the document form of an award.
type AwardYAML struct {
	Name             string    `yaml:"name"`
	StandardDayHours Number    `yaml:"standard_day_hours"`
	SuperRate        Number    `yaml:"super_rate"`
	Rates            RatesYAML `yaml:"rates"`
	Tax              *TaxYAML  `yaml:"tax,omitempty"`
}

// RatesYAML holds the two multiplier columns keyed by category name.
type RatesYAML struct {
	Permanent map[string]Number `yaml:"permanent"`
	Casual    map[string]Number `yaml:"casual"`
}

// TaxYAML is the withholding scale.
type TaxYAML struct {
	WeeksPerYear    Number        `yaml:"weeks_per_year"`
	NoThresholdRate Number        `yaml:"no_threshold_rate"`
	Brackets        []BracketYAML `yaml:"brackets"`
}

type BracketYAML struct {
	From Number `yaml:"from"`
	Rate Number `yaml:"rate"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseAward decodes and validates an award document.
func ParseAward(data []byte) (award.Award, error) {
	var doc AwardYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return award.Award{}, fmt.Errorf("failed to parse award YAML: %w", err)
	}
	return FromYAML(doc)
}

// LoadAwardFile reads an award document from disk.
func LoadAwardFile(path string) (award.Award, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return award.Award{}, fmt.Errorf("read award file: %w", err)
	}
	a, err := ParseAward(data)
	if err != nil {
		return award.Award{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// FromYAML converts the document form, applying defaults, then validates.
func FromYAML(doc AwardYAML) (award.Award, error) {
	a := award.Award{
		Name:             doc.Name,
		StandardDayHours: award.DefaultClassifierConfig().StandardDayHours,
		Tax:              award.DefaultTaxTable(),
		SuperRate:        award.DefaultSuperRate,
	}
	if doc.StandardDayHours.Set {
		a.StandardDayHours = doc.StandardDayHours.Decimal
	}
	if doc.SuperRate.Set {
		a.SuperRate = doc.SuperRate.Decimal
	}

	var err error
	if a.Permanent, err = parseRates("permanent", doc.Rates.Permanent); err != nil {
		return award.Award{}, err
	}
	if a.Casual, err = parseRates("casual", doc.Rates.Casual); err != nil {
		return award.Award{}, err
	}
	if doc.Tax != nil {
		a.Tax = parseTax(*doc.Tax)
	}

	if err := a.Validate(); err != nil {
		return award.Award{}, err
	}
	return a, nil
}

func parseRates(column string, in map[string]Number) (award.RateTable, error) {
	known := make(map[award.Category]bool, len(award.Categories))
	for _, c := range award.Categories {
		known[c] = true
	}

	rt := make(award.RateTable, len(in))
	for name, n := range in {
		c := award.Category(name)
		if !known[c] {
			return nil, &award.AwardError{Field: column + "." + name, Message: "unknown category"}
		}
		rt[c] = n.Decimal
	}
	return rt, nil
}

func parseTax(tj TaxYAML) award.TaxTable {
	t := award.DefaultTaxTable()
	if tj.WeeksPerYear.Set {
		t.WeeksPerYear = tj.WeeksPerYear.Decimal
	}
	if tj.NoThresholdRate.Set {
		t.NoThresholdRate = tj.NoThresholdRate.Decimal
	}
	if len(tj.Brackets) > 0 {
		t.Brackets = make([]award.TaxBracket, 0, len(tj.Brackets))
		for _, b := range tj.Brackets {
			t.Brackets = append(t.Brackets, award.TaxBracket{From: b.From.Decimal, Rate: b.Rate.Decimal})
		}
	}
	return t
}
