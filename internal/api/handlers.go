package api

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "modulos/pricing/internal/errors"
	"modulos/pricing/internal/pricing"
	"modulos/pricing/internal/services"
	appcontext "modulos/pricing/pkg/context"
)

type Handlers struct {
	logger *zap.Logger
	quotes *services.QuoteService
}

// NewHandlers creates the calculator handlers
func NewHandlers(logger *zap.Logger, quotes *services.QuoteService) *Handlers {
	return &Handlers{
		logger: logger,
		quotes: quotes,
	}
}

type QuoteBody struct {
	Apps               *int `json:"apps" validate:"required"`
	RiskQuantification bool `json:"risk_quantification"`
}

type TiersResponse struct {
	Tiers         []pricing.Tier `json:"tiers"`
	MaxApps       int            `json:"max_apps"`
	SurchargeRate string         `json:"surcharge_rate"`
}

type ComparisonResponse struct {
	Apps               int                  `json:"apps"`
	RiskQuantification bool                 `json:"risk_quantification"`
	Rows               []pricing.Comparison `json:"rows"`
}

// parseQuoteQuery reads ?apps=N&risk=true
func parseQuoteQuery(r *http.Request) (services.QuoteRequest, error) {
	var req services.QuoteRequest
	q := r.URL.Query()

	raw := strings.TrimSpace(q.Get("apps"))
	if raw == "" {
		return req, apperrors.New(apperrors.ErrorCodeInvalidInput, "apps is required")
	}
	apps, err := strconv.Atoi(raw)
	if err != nil {
		return req, apperrors.New(apperrors.ErrorCodeInvalidInput, "apps must be a whole number")
	}
	req.Apps = apps

	if risk := strings.TrimSpace(q.Get("risk")); risk != "" {
		req.RiskQuantification, err = strconv.ParseBool(risk)
		if err != nil {
			return req, apperrors.New(apperrors.ErrorCodeInvalidInput, "risk must be true or false")
		}
	}
	return req, nil
}

// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"tiers":  h.quotes.Engine().Table().Len(),
	})
}

// GET /api/tiers
func (h *Handlers) ListTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, TiersResponse{
		Tiers:         h.quotes.Tiers(),
		MaxApps:       h.quotes.MaxApps(),
		SurchargeRate: h.quotes.Engine().SurchargeRate().String(),
	})
}

// GET /api/quote?apps=N&risk=bool
func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuoteQuery(r)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	h.quote(w, r, req)
}

// POST /api/quote
func (h *Handlers) PostQuote(w http.ResponseWriter, r *http.Request) {
	var body QuoteBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}
	if !ValidateRequest(h.logger, w, r, &body) {
		return
	}
	h.quote(w, r, services.QuoteRequest{Apps: *body.Apps, RiskQuantification: body.RiskQuantification})
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request, req services.QuoteRequest) {
	quote, err := h.quotes.Quote(r.Context(), req)
	if err != nil {
		appcontext.LoggerFromContext(r.Context()).Info("Quote rejected",
			zap.Int("apps", req.Apps),
			zap.Error(err),
		)
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, quote)
}

// GET /api/quote/compare?apps=N&risk=bool
func (h *Handlers) GetComparison(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuoteQuery(r)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	rows, err := h.quotes.Compare(r.Context(), req)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, ComparisonResponse{
		Apps:               req.Apps,
		RiskQuantification: req.RiskQuantification,
		Rows:               rows,
	})
}

// GET /api/quote/chart?apps=N&risk=bool
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuoteQuery(r)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	chart, err := h.quotes.Chart(r.Context(), req)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, chart)
}
