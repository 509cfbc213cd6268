package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "modulos/pricing/internal/errors"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	table, err := DefaultTable()
	require.NoError(t, err)
	return NewEngine(table, opts...)
}

func mustTier(t *testing.T, e *Engine, name string) Tier {
	t.Helper()
	tier, ok := e.Table().Lookup(name)
	require.True(t, ok, "tier %q not in table", name)
	return tier
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), append([]interface{}{"want %d, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestFindTier_EveryCountInRange(t *testing.T) {
	e := newTestEngine(t)

	for _, tier := range e.Table().Tiers() {
		upper := tier.MaxApps
		if tier.IsUnbounded() {
			upper = 2000
		}
		for n := tier.MinApps; n <= upper; n++ {
			require.Equal(t, tier.Name, e.FindTier(n).Name, "apps=%d", n)
		}
	}
}

func TestFindTier_Monotonic(t *testing.T) {
	e := newTestEngine(t)
	index := func(name string) int {
		return e.Table().indexOf(name)
	}

	prev := index(e.FindTier(10).Name)
	for n := 11; n <= 2000; n++ {
		cur := index(e.FindTier(n).Name)
		require.GreaterOrEqual(t, cur, prev, "apps=%d", n)
		prev = cur
	}
}

func TestFindTier_FallsBackToTopTier(t *testing.T) {
	e := newTestEngine(t)

	for _, n := range []int{0, 1, 5, 9} {
		assert.Equal(t, "Mod 1000+", e.FindTier(n).Name, "apps=%d", n)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		apps     int
		wantTier string
		wantErr  bool
	}{
		{name: "lenient covered", apps: 100, wantTier: "Mod 100"},
		{name: "lenient fallback", apps: 5, wantTier: "Mod 1000+"},
		{name: "strict covered", strict: true, apps: 49, wantTier: "Mod Mini"},
		{name: "strict uncovered", strict: true, apps: 5, wantErr: true},
		{name: "strict top tier", strict: true, apps: 5000, wantTier: "Mod 1000+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, WithStrict(tt.strict))

			tier, err := e.Resolve(tt.apps)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoTier)
				assert.True(t, apperrors.HasCode(err, apperrors.ErrorCodeNoTier))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, tier.Name)
		})
	}
}

func TestCalculatePrice_BasePriceAtMinApps(t *testing.T) {
	e := newTestEngine(t)

	for _, tier := range e.Table().Tiers() {
		result := e.CalculatePrice(tier.MinApps, tier, false)
		assert.True(t, result.TotalPrice.Equal(tier.BasePrice), tier.Name)
		assert.True(t, result.AdditionalCost.IsZero(), tier.Name)
		assert.Zero(t, result.AdditionalApps, tier.Name)
	}
}

func TestCalculatePrice_StrictlyIncreasing(t *testing.T) {
	e := newTestEngine(t)

	for _, tier := range e.Table().Tiers() {
		require.True(t, tier.PricePerApp.IsPositive())
		prev := e.CalculatePrice(tier.MinApps, tier, false).TotalPrice
		for n := tier.MinApps + 1; n <= tier.MinApps+300; n++ {
			cur := e.CalculatePrice(n, tier, false).TotalPrice
			require.True(t, cur.GreaterThan(prev), "%s apps=%d", tier.Name, n)
			prev = cur
		}
	}
}

func TestCalculatePrice_SurchargeIsThirtyPercent(t *testing.T) {
	e := newTestEngine(t)
	factor := decimal.RequireFromString("1.30")

	for _, tier := range e.Table().Tiers() {
		for _, n := range []int{tier.MinApps, tier.MinApps + 1, tier.MinApps + 37, 2000} {
			plain := e.CalculatePrice(n, tier, false)
			risk := e.CalculatePrice(n, tier, true)
			assert.True(t, risk.TotalPrice.Equal(plain.TotalPrice.Mul(factor)), "%s apps=%d", tier.Name, n)
			assert.True(t, risk.Subtotal.Equal(plain.Subtotal))
			assert.True(t, plain.RiskPremium.IsZero())
		}
	}
}

func TestCalculatePrice_BelowMinAppsChargesBaseOnly(t *testing.T) {
	e := newTestEngine(t)
	mod350 := mustTier(t, e, "Mod 350")

	result := e.CalculatePrice(100, mod350, false)

	assertAmount(t, 245000, result.TotalPrice)
	assert.True(t, result.AdditionalCost.IsZero())
	assert.Zero(t, result.AdditionalApps)
}

func TestCalculatePrice_CustomSurchargeRate(t *testing.T) {
	e := newTestEngine(t, WithSurchargeRate(decimal.RequireFromString("0.10")))
	mod100 := mustTier(t, e, "Mod 100")

	result := e.CalculatePrice(100, mod100, true)

	assertAmount(t, 15000, result.RiskPremium)
	assertAmount(t, 165000, result.TotalPrice)
}

func TestScenario_Mod100AtFloor(t *testing.T) {
	e := newTestEngine(t)

	tier := e.FindTier(100)
	require.Equal(t, "Mod 100", tier.Name)
	assertAmount(t, 150000, e.CalculatePrice(100, tier, false).TotalPrice)
}

func TestScenario_Mod100PastInflection(t *testing.T) {
	e := newTestEngine(t)
	tier := e.FindTier(199)
	require.Equal(t, "Mod 100", tier.Name)

	result := e.CalculatePrice(199, tier, false)
	assert.Equal(t, 99, result.AdditionalApps)
	assertAmount(t, 148500, result.AdditionalCost)
	assertAmount(t, 298500, result.TotalPrice)

	rec := e.RecommendUpgrade(199, false)
	require.NotNil(t, rec)
	assert.Equal(t, "Mod 100", rec.CurrentTier.Name)
	assert.Equal(t, "Mod 200", rec.RecommendedTier.Name)
	assertAmount(t, 298500, rec.CurrentPrice)
	assertAmount(t, 220000, rec.RecommendedPrice)
	assertAmount(t, 78500, rec.Savings)
	assert.Equal(t, "You're past the inflection point (147 apps). Upgrading to Mod 200 would be more cost-effective.", rec.Reason)
}

func TestScenario_TopTierWithSurcharge(t *testing.T) {
	e := newTestEngine(t)
	tier := e.FindTier(1000)
	require.Equal(t, "Mod 1000+", tier.Name)

	assertAmount(t, 450000, e.CalculatePrice(1000, tier, false).TotalPrice)

	risk := e.CalculatePrice(1000, tier, true)
	assertAmount(t, 135000, risk.RiskPremium)
	assertAmount(t, 585000, risk.TotalPrice)
}

func TestScenario_BelowSmallestTier(t *testing.T) {
	e := newTestEngine(t)

	tier := e.FindTier(5)
	require.Equal(t, "Mod 1000+", tier.Name)
	assertAmount(t, 450000, e.CalculatePrice(5, tier, false).TotalPrice)
}

func TestRecommendUpgrade_NeverForTopTier(t *testing.T) {
	e := newTestEngine(t)

	for _, n := range []int{0, 5, 9, 1000, 1500, 2000, 100000} {
		assert.Nil(t, e.RecommendUpgrade(n, false), "apps=%d", n)
		assert.Nil(t, e.RecommendUpgrade(n, true), "apps=%d", n)
	}
}

func TestRecommendUpgrade_Thresholds(t *testing.T) {
	tests := []struct {
		apps     int
		wantNext string
	}{
		{apps: 42},
		{apps: 43, wantNext: "Mod 50"},
		{apps: 88},
		{apps: 89, wantNext: "Mod 100"},
		{apps: 146},
		{apps: 147, wantNext: "Mod 200"},
		{apps: 222},
		{apps: 223, wantNext: "Mod 350"},
		{apps: 642},
		{apps: 643, wantNext: "Mod 1000+"},
		{apps: 999, wantNext: "Mod 1000+"},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		rec := e.RecommendUpgrade(tt.apps, false)
		if tt.wantNext == "" {
			assert.Nil(t, rec, "apps=%d", tt.apps)
			continue
		}
		require.NotNil(t, rec, "apps=%d", tt.apps)
		assert.Equal(t, tt.wantNext, rec.RecommendedTier.Name)
		assert.True(t, rec.RecommendedPrice.Equal(rec.RecommendedTier.BasePrice))
	}
}

func TestRecommendUpgrade_WithSurchargePricesBothSides(t *testing.T) {
	e := newTestEngine(t)

	rec := e.RecommendUpgrade(199, true)
	require.NotNil(t, rec)
	assertAmount(t, 388050, rec.CurrentPrice)
	assertAmount(t, 286000, rec.RecommendedPrice)
	assertAmount(t, 102050, rec.Savings)
}

func TestRecommendUpgrade_MissingInflectionPoint(t *testing.T) {
	table, err := NewTable([]Tier{
		{Name: "Small", MinApps: 1, MaxApps: 9, BasePrice: decimal.NewFromInt(100), PricePerApp: decimal.NewFromInt(50)},
		{Name: "Large", MinApps: 10, MaxApps: Unbounded, BasePrice: decimal.NewFromInt(400), PricePerApp: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	e := NewEngine(table)

	assert.Nil(t, e.RecommendUpgrade(9, false))
}

func TestRecommendUpgrade_NegativeSavings(t *testing.T) {
	ip := decimal.NewFromInt(2)
	table, err := NewTable([]Tier{
		{Name: "Small", MinApps: 1, MaxApps: 9, BasePrice: decimal.NewFromInt(100), PricePerApp: decimal.NewFromInt(1), InflectionPoint: &ip},
		{Name: "Large", MinApps: 10, MaxApps: Unbounded, BasePrice: decimal.NewFromInt(1000), PricePerApp: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	e := NewEngine(table)

	rec := e.RecommendUpgrade(3, false)
	require.NotNil(t, rec)
	assertAmount(t, -898, rec.Savings)
}

func TestCompare(t *testing.T) {
	e := newTestEngine(t)

	rows := e.Compare(199, false)
	require.Len(t, rows, 6)

	want := map[string]int64{
		"Mod Mini":  20000 + 189*2000,
		"Mod 50":    85000 + 149*1700,
		"Mod 100":   298500,
		"Mod 200":   220000,
		"Mod 350":   245000,
		"Mod 1000+": 450000,
	}
	selected := 0
	for _, row := range rows {
		assertAmount(t, want[row.Tier.Name], row.Price.TotalPrice, row.Tier.Name)
		if row.Selected {
			selected++
			assert.Equal(t, "Mod 100", row.Tier.Name)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestCompare_FallbackSelectsTopTier(t *testing.T) {
	e := newTestEngine(t)

	rows := e.Compare(5, false)
	assert.True(t, rows[len(rows)-1].Selected)
	for _, row := range rows[:len(rows)-1] {
		assert.False(t, row.Selected)
	}
}

func TestStats(t *testing.T) {
	e := newTestEngine(t)
	tier := e.FindTier(100)
	price := e.CalculatePrice(100, tier, true)

	stats := e.Stats(100, tier, price)

	assertAmount(t, 1950, stats.TotalPerApp)
	assertAmount(t, 1500, stats.BasePerApp)
	assertAmount(t, 45000, stats.RiskPremium)
	assert.Equal(t, "100-199", stats.TierRange)
}

func TestStats_ZeroApps(t *testing.T) {
	e := newTestEngine(t)
	tier := e.FindTier(0)

	stats := e.Stats(0, tier, e.CalculatePrice(0, tier, false))

	assert.True(t, stats.TotalPerApp.IsZero())
	assert.True(t, stats.BasePerApp.IsZero())
	assert.Equal(t, "1000-∞", stats.TierRange)
}

func TestValidateAppCount(t *testing.T) {
	tests := []struct {
		apps    int
		wantErr bool
	}{
		{apps: -1, wantErr: true},
		{apps: 0, wantErr: true},
		{apps: 1},
		{apps: 5},
		{apps: 2000},
		{apps: 2001, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateAppCount(tt.apps, 2000)
		if tt.wantErr {
			assert.True(t, apperrors.HasCode(err, apperrors.ErrorCodeInvalidInput), "apps=%d", tt.apps)
		} else {
			assert.NoError(t, err, "apps=%d", tt.apps)
		}
	}
}
