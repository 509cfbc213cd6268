package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "modulos/pricing/internal/errors"
)

// DefaultSurchargeRate is the risk quantification markup applied to the subtotal.
var DefaultSurchargeRate = decimal.RequireFromString("0.30")

// ErrNoTier is returned by Resolve in strict mode when no tier covers the app count.
var ErrNoTier = apperrors.New(apperrors.ErrorCodeNoTier)

// PriceResult is the price of an app count on one tier.
type PriceResult struct {
	AdditionalApps     int             `json:"additional_apps" yaml:"additional_apps"`
	AdditionalCost     decimal.Decimal `json:"additional_cost" yaml:"additional_cost"`
	Subtotal           decimal.Decimal `json:"subtotal" yaml:"subtotal"`
	RiskPremium        decimal.Decimal `json:"risk_premium" yaml:"risk_premium"`
	TotalPrice         decimal.Decimal `json:"total_price" yaml:"total_price"`
	RiskQuantification bool            `json:"risk_quantification" yaml:"risk_quantification"`
}

// Recommendation suggests moving to the next tier once the current tier's
// inflection point is reached. Savings may be negative.
type Recommendation struct {
	CurrentTier      Tier            `json:"current_tier" yaml:"current_tier"`
	RecommendedTier  Tier            `json:"recommended_tier" yaml:"recommended_tier"`
	CurrentPrice     decimal.Decimal `json:"current_price" yaml:"current_price"`
	RecommendedPrice decimal.Decimal `json:"recommended_price" yaml:"recommended_price"`
	Savings          decimal.Decimal `json:"savings" yaml:"savings"`
	Reason           string          `json:"reason" yaml:"reason"`
}

// Comparison is one row of the tier comparison table.
type Comparison struct {
	Tier     Tier        `json:"tier" yaml:"tier"`
	Price    PriceResult `json:"price" yaml:"price"`
	Selected bool        `json:"selected" yaml:"selected"`
}

// Stats are the per-app figures shown next to a quote.
type Stats struct {
	TotalPerApp decimal.Decimal `json:"total_per_app" yaml:"total_per_app"`
	BasePerApp  decimal.Decimal `json:"base_per_app" yaml:"base_per_app"`
	RiskPremium decimal.Decimal `json:"risk_premium" yaml:"risk_premium"`
	TierRange   string          `json:"tier_range" yaml:"tier_range"`
}

// Engine evaluates prices against a Table. It is safe for concurrent use.
type Engine struct {
	table         *Table
	surchargeRate decimal.Decimal
	strict        bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSurchargeRate overrides the risk quantification markup.
func WithSurchargeRate(rate decimal.Decimal) Option {
	return func(e *Engine) {
		e.surchargeRate = rate
	}
}

// WithStrict makes Resolve reject app counts no tier covers instead of
// falling back to the top tier.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// NewEngine creates an engine over table.
func NewEngine(table *Table, opts ...Option) *Engine {
	e := &Engine{
		table:         table,
		surchargeRate: DefaultSurchargeRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the engine's tier table.
func (e *Engine) Table() *Table {
	return e.table
}

// SurchargeRate returns the risk quantification markup.
func (e *Engine) SurchargeRate() decimal.Decimal {
	return e.surchargeRate
}

// Strict reports whether Resolve rejects uncovered app counts.
func (e *Engine) Strict() bool {
	return e.strict
}

// FindTier returns the first tier containing numApps. Counts no tier covers
// (below the smallest min_apps) get the last tier; FindTier never fails.
func (e *Engine) FindTier(numApps int) Tier {
	i, _ := e.findIndex(numApps)
	return e.table.At(i)
}

// Resolve is FindTier honouring strict mode.
func (e *Engine) Resolve(numApps int) (Tier, error) {
	i, found := e.findIndex(numApps)
	if !found && e.strict {
		return Tier{}, apperrors.New(apperrors.ErrorCodeNoTier, fmt.Sprintf("apps=%d", numApps))
	}
	return e.table.At(i), nil
}

func (e *Engine) findIndex(numApps int) (int, bool) {
	for i, t := range e.table.tiers {
		if t.Contains(numApps) {
			return i, true
		}
	}
	return len(e.table.tiers) - 1, false
}

// CalculatePrice prices numApps on tier. Counts below the tier's min_apps are
// charged the base price only.
func (e *Engine) CalculatePrice(numApps int, tier Tier, riskQuantification bool) PriceResult {
	result := PriceResult{
		AdditionalCost:     decimal.Zero,
		Subtotal:           tier.BasePrice,
		RiskPremium:        decimal.Zero,
		RiskQuantification: riskQuantification,
	}

	if numApps >= tier.MinApps {
		result.AdditionalApps = numApps - tier.MinApps
		result.AdditionalCost = tier.PricePerApp.Mul(decimal.NewFromInt(int64(result.AdditionalApps)))
		result.Subtotal = tier.BasePrice.Add(result.AdditionalCost)
	}

	if riskQuantification {
		result.RiskPremium = result.Subtotal.Mul(e.surchargeRate)
	}
	result.TotalPrice = result.Subtotal.Add(result.RiskPremium)
	return result
}

// RecommendUpgrade returns a recommendation when numApps has reached the
// current tier's inflection point, or nil. The next tier is priced at its own
// min_apps, not at numApps.
func (e *Engine) RecommendUpgrade(numApps int, riskQuantification bool) *Recommendation {
	i, _ := e.findIndex(numApps)
	current := e.table.At(i)
	currentPrice := e.CalculatePrice(numApps, current, riskQuantification).TotalPrice

	if i == e.table.Len()-1 {
		return nil
	}
	next := e.table.At(i + 1)

	if current.InflectionPoint == nil {
		return nil
	}
	threshold := *current.InflectionPoint
	if decimal.NewFromInt(int64(numApps)).LessThan(threshold) {
		return nil
	}

	recommendedPrice := e.CalculatePrice(next.MinApps, next, riskQuantification).TotalPrice
	return &Recommendation{
		CurrentTier:      current,
		RecommendedTier:  next,
		CurrentPrice:     currentPrice,
		RecommendedPrice: recommendedPrice,
		Savings:          currentPrice.Sub(recommendedPrice),
		Reason: fmt.Sprintf("You're past the inflection point (%s apps). Upgrading to %s would be more cost-effective.",
			threshold.StringFixedBank(0), next.Name),
	}
}

// Compare prices numApps against every tier in table order.
func (e *Engine) Compare(numApps int, riskQuantification bool) []Comparison {
	selected, _ := e.findIndex(numApps)
	rows := make([]Comparison, 0, e.table.Len())
	for i, t := range e.table.Tiers() {
		rows = append(rows, Comparison{
			Tier:     t,
			Price:    e.CalculatePrice(numApps, t, riskQuantification),
			Selected: i == selected,
		})
	}
	return rows
}

// Stats derives per-app figures for a priced quote. numApps <= 0 yields zero
// per-app values.
func (e *Engine) Stats(numApps int, tier Tier, price PriceResult) Stats {
	stats := Stats{
		TotalPerApp: decimal.Zero,
		BasePerApp:  decimal.Zero,
		RiskPremium: price.RiskPremium,
		TierRange:   tier.RangeLabel(),
	}
	if numApps > 0 {
		n := decimal.NewFromInt(int64(numApps))
		stats.TotalPerApp = price.TotalPrice.Div(n)
		stats.BasePerApp = price.Subtotal.Div(n)
	}
	return stats
}

// MaxAppsLimit is the largest configurable app ceiling.
const MaxAppsLimit = 1_000_000

// ValidateAppCount rejects counts outside [1, maxApps].
func ValidateAppCount(numApps, maxApps int) error {
	if numApps < 1 || numApps > maxApps {
		return apperrors.New(apperrors.ErrorCodeInvalidInput,
			fmt.Sprintf("apps=%d must be between 1 and %d", numApps, maxApps))
	}
	return nil
}
