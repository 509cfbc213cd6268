// Package pricing holds the tier table and the pricing engine for the
// Modulos AI GRC calculator. Everything in here is pure: no I/O after the
// table is loaded and no shared mutable state.
package pricing

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Unbounded is the MaxApps value of the open-ended last tier.
const Unbounded = math.MaxInt

// Tier is a priced band of app-count coverage.
type Tier struct {
	Name        string
	MinApps     int
	MaxApps     int
	BasePrice   decimal.Decimal
	PricePerApp decimal.Decimal
	// InflectionPoint is the app count from which the next tier's floor price
	// is cheaper. Nil for the last tier.
	InflectionPoint *decimal.Decimal
	// InflectionPercentage is descriptive only.
	InflectionPercentage *decimal.Decimal
}

// IsUnbounded reports whether the tier has no upper app limit.
func (t Tier) IsUnbounded() bool {
	return t.MaxApps == Unbounded
}

// Contains reports whether numApps falls in the tier's inclusive range.
func (t Tier) Contains(numApps int) bool {
	return numApps >= t.MinApps && numApps <= t.MaxApps
}

// RangeLabel renders the range as "10-49" or "1000-∞".
func (t Tier) RangeLabel() string {
	if t.IsUnbounded() {
		return fmt.Sprintf("%d-∞", t.MinApps)
	}
	return fmt.Sprintf("%d-%d", t.MinApps, t.MaxApps)
}

func (t Tier) clone() Tier {
	c := t
	if t.InflectionPoint != nil {
		v := *t.InflectionPoint
		c.InflectionPoint = &v
	}
	if t.InflectionPercentage != nil {
		v := *t.InflectionPercentage
		c.InflectionPercentage = &v
	}
	return c
}

// tierView is the wire shape of a Tier; max_apps is null when unbounded.
type tierView struct {
	Name                 string           `json:"name" yaml:"name"`
	MinApps              int              `json:"min_apps" yaml:"min_apps"`
	MaxApps              *int             `json:"max_apps" yaml:"max_apps"`
	Range                string           `json:"range" yaml:"range"`
	BasePrice            decimal.Decimal  `json:"base_price" yaml:"base_price"`
	PricePerApp          decimal.Decimal  `json:"price_per_app" yaml:"price_per_app"`
	InflectionPoint      *decimal.Decimal `json:"inflection_point" yaml:"inflection_point"`
	InflectionPercentage *decimal.Decimal `json:"inflection_percentage" yaml:"inflection_percentage"`
}

func (t Tier) view() tierView {
	v := tierView{
		Name:                 t.Name,
		MinApps:              t.MinApps,
		Range:                t.RangeLabel(),
		BasePrice:            t.BasePrice,
		PricePerApp:          t.PricePerApp,
		InflectionPoint:      t.InflectionPoint,
		InflectionPercentage: t.InflectionPercentage,
	}
	if !t.IsUnbounded() {
		maxApps := t.MaxApps
		v.MaxApps = &maxApps
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.view())
}

// MarshalYAML implements yaml.Marshaler.
func (t Tier) MarshalYAML() (interface{}, error) {
	return t.view(), nil
}
