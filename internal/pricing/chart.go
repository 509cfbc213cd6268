package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	// ChartMaxApps caps the x axis of the price curves.
	ChartMaxApps = 1500
	// ChartStep is the sampling interval along each curve.
	ChartStep = 10
)

// ChartPoint is one sample on a price curve.
type ChartPoint struct {
	Apps  int             `json:"apps" yaml:"apps"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

// ChartSeries is the price curve of one tier over its own range.
type ChartSeries struct {
	Tier   string       `json:"tier" yaml:"tier"`
	Points []ChartPoint `json:"points" yaml:"points"`
}

// SelectionPoint marks the requested configuration on the chart.
type SelectionPoint struct {
	Apps  int             `json:"apps" yaml:"apps"`
	Price decimal.Decimal `json:"price" yaml:"price"`
	Tier  string          `json:"tier" yaml:"tier"`
}

// InflectionMarker is a vertical marker at a tier's inflection point.
type InflectionMarker struct {
	Tier  string          `json:"tier" yaml:"tier"`
	Apps  decimal.Decimal `json:"apps" yaml:"apps"`
	Price decimal.Decimal `json:"price" yaml:"price"`
	Label string          `json:"label" yaml:"label"`
}

// Chart is the data behind the price-vs-apps chart.
type Chart struct {
	Series    []ChartSeries      `json:"series" yaml:"series"`
	Selection SelectionPoint     `json:"selection" yaml:"selection"`
	Markers   []InflectionMarker `json:"markers" yaml:"markers"`
}

// Chart samples every tier's curve from min_apps to min(max_apps, ChartMaxApps)
// and adds the selection point and the inflection markers inside that window.
func (e *Engine) Chart(numApps int, riskQuantification bool) Chart {
	chart := Chart{
		Series:  make([]ChartSeries, 0, e.table.Len()),
		Markers: []InflectionMarker{},
	}

	for _, t := range e.table.Tiers() {
		upper := min(t.MaxApps, ChartMaxApps)
		series := ChartSeries{Tier: t.Name, Points: []ChartPoint{}}
		for apps := t.MinApps; apps <= upper; apps += ChartStep {
			series.Points = append(series.Points, ChartPoint{
				Apps:  apps,
				Price: e.CalculatePrice(apps, t, riskQuantification).TotalPrice,
			})
		}
		chart.Series = append(chart.Series, series)

		if t.InflectionPoint == nil || t.InflectionPoint.GreaterThan(decimal.NewFromInt(ChartMaxApps)) {
			continue
		}
		at := int(t.InflectionPoint.IntPart())
		chart.Markers = append(chart.Markers, InflectionMarker{
			Tier:  t.Name,
			Apps:  *t.InflectionPoint,
			Price: e.CalculatePrice(at, t, riskQuantification).TotalPrice,
			Label: t.Name + " Optimization Point",
		})
	}

	current := e.FindTier(numApps)
	chart.Selection = SelectionPoint{
		Apps:  numApps,
		Price: e.CalculatePrice(numApps, current, riskQuantification).TotalPrice,
		Tier:  current.Name,
	}
	return chart
}
