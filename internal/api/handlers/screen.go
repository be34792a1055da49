package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/screenhub/internal/aggregator"
	"github.com/wonny/screenhub/internal/screener"
	"github.com/wonny/screenhub/pkg/logger"
)

// ScreenHandler handles stock screening API endpoints
// ⭐ SSOT: screening API handlers live only in this struct
type ScreenHandler struct {
	aggregator *aggregator.Aggregator
	logger     *logger.Logger
}

// NewScreenHandler creates a new screening handler
func NewScreenHandler(agg *aggregator.Aggregator, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		aggregator: agg,
		logger:     log,
	}
}

// ScreenRequest is the request body for POST /api/screen.
// Descending is a pointer so an omitted field keeps the default
// ranking direction (descending).
type ScreenRequest struct {
	Criteria   screener.Criteria `json:"criteria"`
	Providers  []string          `json:"providers,omitempty"`
	RiskLevel  string            `json:"riskLevel,omitempty"`
	TopK       int               `json:"topK,omitempty"`
	SortBy     string            `json:"sortBy,omitempty"`
	Descending *bool             `json:"descending,omitempty"`
}

// Screen runs a parallel screen across providers, merges the results
// and applies optional risk filtering and ranking.
// POST /api/screen
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Criteria == nil {
		req.Criteria = screener.Criteria{}
	}
	if req.TopK > 0 && req.SortBy == "" {
		respondError(w, http.StatusBadRequest, "sortBy is required when topK is set")
		return
	}

	results := h.aggregator.ScreenParallel(ctx, req.Criteria, req.Providers...)
	stocks := h.aggregator.CombineResults(results)

	if req.RiskLevel != "" {
		stocks = h.aggregator.FilterByRisk(stocks, req.RiskLevel)
	}
	if req.TopK > 0 {
		descending := true
		if req.Descending != nil {
			descending = *req.Descending
		}
		stocks = h.aggregator.TopK(stocks, req.TopK, req.SortBy, descending)
	}

	h.logger.WithFields(map[string]interface{}{
		"providers": results.Providers(),
		"count":     len(stocks),
	}).Info("Screen completed")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"providers": results.Providers(),
		"count":     len(stocks),
		"data":      stocks,
	})
}

// ProviderInfo describes a registered provider for API responses
type ProviderInfo struct {
	Name     string                  `json:"name"`
	Criteria screener.CriteriaSchema `json:"criteria"`
}

// GetProviders returns the registered providers and their criteria
// GET /api/providers
func (h *ScreenHandler) GetProviders(w http.ResponseWriter, r *http.Request) {
	schemas := h.aggregator.AvailableCriteria()

	providers := make([]ProviderInfo, 0, len(schemas))
	for _, name := range h.aggregator.ProviderNames() {
		providers = append(providers, ProviderInfo{
			Name:     name,
			Criteria: schemas[name],
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"providers": providers,
	})
}

// GetStockDetails returns merged details for a single stock
// GET /api/stocks/{ticker}?providers=finology,eodhd
func (h *ScreenHandler) GetStockDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	var providers []string
	if raw := r.URL.Query().Get("providers"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				providers = append(providers, name)
			}
		}
	}

	details := h.aggregator.StockDetails(ctx, ticker, providers...)
	if len(details) == 0 {
		respondError(w, http.StatusNotFound, "no details available for "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    details,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
