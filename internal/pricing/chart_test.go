package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChart_Series(t *testing.T) {
	e := newTestEngine(t)

	chart := e.Chart(100, false)
	require.Len(t, chart.Series, 6)

	mini := chart.Series[0]
	assert.Equal(t, "Mod Mini", mini.Tier)
	require.Len(t, mini.Points, 4) // 10, 20, 30, 40
	assert.Equal(t, 10, mini.Points[0].Apps)
	assert.Equal(t, 40, mini.Points[3].Apps)
	assertAmount(t, 80000, mini.Points[3].Price)

	top := chart.Series[5]
	assert.Equal(t, "Mod 1000+", top.Tier)
	require.Len(t, top.Points, 51) // 1000..1500
	assert.Equal(t, ChartMaxApps, top.Points[len(top.Points)-1].Apps)
	assertAmount(t, 450000+500*450, top.Points[len(top.Points)-1].Price)

	for _, s := range chart.Series {
		for i := 1; i < len(s.Points); i++ {
			assert.Equal(t, ChartStep, s.Points[i].Apps-s.Points[i-1].Apps)
		}
	}
}

func TestChart_SelectionAndMarkers(t *testing.T) {
	e := newTestEngine(t)

	chart := e.Chart(199, true)

	assert.Equal(t, 199, chart.Selection.Apps)
	assert.Equal(t, "Mod 100", chart.Selection.Tier)
	assertAmount(t, 388050, chart.Selection.Price)

	require.Len(t, chart.Markers, 5)
	assert.Equal(t, "Mod Mini Optimization Point", chart.Markers[0].Label)
	assert.True(t, chart.Markers[0].Apps.Equal(decimal.RequireFromString("42.5")))
	// priced at the floored inflection point: 20000 + 32*2000, +30%
	assertAmount(t, 109200, chart.Markers[0].Price)
	for _, m := range chart.Markers {
		assert.NotEqual(t, "Mod 1000+", m.Tier)
	}
}

func TestChart_MarkersBeyondWindowAreSkipped(t *testing.T) {
	ip := decimal.NewFromInt(1800)
	table, err := NewTable([]Tier{
		{Name: "Big", MinApps: 1, MaxApps: 1999, BasePrice: decimal.NewFromInt(10), PricePerApp: decimal.NewFromInt(1), InflectionPoint: &ip},
		{Name: "Huge", MinApps: 2000, MaxApps: Unbounded, BasePrice: decimal.NewFromInt(2000), PricePerApp: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)

	chart := NewEngine(table).Chart(10, false)

	assert.Empty(t, chart.Markers)
	assert.Empty(t, chart.Series[1].Points)
}
