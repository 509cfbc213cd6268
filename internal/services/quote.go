package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"modulos/pricing/internal/domain"
	"modulos/pricing/internal/pricing"
)

// QuoteRequest is a single pricing question
type QuoteRequest struct {
	Apps               int
	RiskQuantification bool
}

// BreakdownLine is one row of the itemised cost breakdown
type BreakdownLine struct {
	Label  string          `json:"label" yaml:"label"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Quote is everything the calculator shows for one request
type Quote struct {
	Apps               int                     `json:"apps" yaml:"apps"`
	RiskQuantification bool                    `json:"risk_quantification" yaml:"risk_quantification"`
	SurchargeRate      decimal.Decimal         `json:"surcharge_rate" yaml:"surcharge_rate"`
	Tier               pricing.Tier            `json:"tier" yaml:"tier"`
	Price              pricing.PriceResult     `json:"price" yaml:"price"`
	Stats              pricing.Stats           `json:"stats" yaml:"stats"`
	Breakdown          []BreakdownLine         `json:"breakdown" yaml:"breakdown"`
	Recommendation     *pricing.Recommendation `json:"recommendation" yaml:"recommendation"`
	Message            string                  `json:"message,omitempty" yaml:"message,omitempty"`
	Comparison         []pricing.Comparison    `json:"comparison" yaml:"comparison"`
}

// QuoteService answers pricing questions on top of the engine
type QuoteService struct {
	engine  *pricing.Engine
	maxApps int
	logger  *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(engine *pricing.Engine, maxApps int, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		engine:  engine,
		maxApps: maxApps,
		logger:  logger,
	}
}

// Engine returns the underlying pricing engine
func (s *QuoteService) Engine() *pricing.Engine {
	return s.engine
}

// MaxApps returns the largest app count accepted
func (s *QuoteService) MaxApps() int {
	return s.maxApps
}

// Tiers returns the tier table in order
func (s *QuoteService) Tiers() []pricing.Tier {
	return s.engine.Table().Tiers()
}

func (s *QuoteService) resolve(apps int) (pricing.Tier, error) {
	if err := pricing.ValidateAppCount(apps, s.maxApps); err != nil {
		return pricing.Tier{}, err
	}
	return s.engine.Resolve(apps)
}

// Quote prices a request and assembles stats, breakdown, recommendation and
// the comparison across all tiers
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	tier, err := s.resolve(req.Apps)
	if err != nil {
		return nil, err
	}

	price := s.engine.CalculatePrice(req.Apps, tier, req.RiskQuantification)
	quote := &Quote{
		Apps:               req.Apps,
		RiskQuantification: req.RiskQuantification,
		SurchargeRate:      s.engine.SurchargeRate(),
		Tier:               tier,
		Price:              price,
		Stats:              s.engine.Stats(req.Apps, tier, price),
		Breakdown:          s.breakdown(tier, price),
		Recommendation:     s.engine.RecommendUpgrade(req.Apps, req.RiskQuantification),
		Comparison:         s.engine.Compare(req.Apps, req.RiskQuantification),
	}
	if quote.Recommendation == nil {
		quote.Message = fmt.Sprintf("You're getting the best value with the %s tier for %d AI systems!", tier.Name, req.Apps)
	}

	fields := []zap.Field{
		zap.Int("apps", req.Apps),
		zap.Bool("risk_quantification", req.RiskQuantification),
		zap.String("tier", tier.Name),
		zap.String("total_price", price.TotalPrice.String()),
		zap.Bool("upgrade_recommended", quote.Recommendation != nil),
	}
	if requestID := domain.RequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	s.logger.Info("Quote calculated", fields...)

	return quote, nil
}

// Compare validates apps and prices it on every tier
func (s *QuoteService) Compare(ctx context.Context, req QuoteRequest) ([]pricing.Comparison, error) {
	if _, err := s.resolve(req.Apps); err != nil {
		return nil, err
	}
	return s.engine.Compare(req.Apps, req.RiskQuantification), nil
}

// Chart validates apps and returns the chart data for it
func (s *QuoteService) Chart(ctx context.Context, req QuoteRequest) (*pricing.Chart, error) {
	if _, err := s.resolve(req.Apps); err != nil {
		return nil, err
	}
	chart := s.engine.Chart(req.Apps, req.RiskQuantification)
	return &chart, nil
}

func (s *QuoteService) breakdown(tier pricing.Tier, price pricing.PriceResult) []BreakdownLine {
	lines := []BreakdownLine{
		{Label: fmt.Sprintf("Base Tier Price (%s)", tier.Name), Amount: tier.BasePrice},
		{
			Label: fmt.Sprintf("Additional AI Systems (%d × %s)",
				price.AdditionalApps, pricing.FormatAmount(tier.PricePerApp)),
			Amount: price.AdditionalCost,
		},
	}
	if price.RiskQuantification {
		lines = append(lines,
			BreakdownLine{Label: "Subtotal (Base + Additional)", Amount: price.Subtotal},
			BreakdownLine{
				Label:  fmt.Sprintf("Risk Quantification Premium (+%s)", pricing.FormatPercent(s.engine.SurchargeRate())),
				Amount: price.RiskPremium,
			},
		)
	}
	return append(lines, BreakdownLine{Label: "Total Investment", Amount: price.TotalPrice})
}
