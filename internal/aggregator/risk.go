package aggregator

import (
	"math"
	"strings"

	"github.com/wonny/screenhub/internal/screener"
)

// Risk levels accepted by FilterByRisk
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// FilterByRisk filters combined records by a coarse risk classification.
// Pure predicate filter; input records are not mutated.
//
// Missing numeric fields default so that missing data fails restrictive
// thresholds rather than passing them: marketCap 0, debtToEquity +Inf,
// dividendYield 0, peRatio 0.
//
// An unknown risk level returns the entire input unfiltered with a
// warning. Kept deliberately; callers depend on the pass-through.
func (a *Aggregator) FilterByRisk(stocks []screener.Record, riskLevel string) []screener.Record {
	level := strings.ToLower(riskLevel)

	switch level {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		a.logger.WithField("risk_level", riskLevel).Warn("Unknown risk level")
		return stocks
	}

	filtered := make([]screener.Record, 0)

	for _, stock := range stocks {
		marketCap := numberOr(stock, screener.FieldMarketCap, 0)
		debtToEquity := numberOr(stock, screener.FieldDebtToEquity, math.Inf(1))
		dividendYield := numberOr(stock, screener.FieldDividendYield, 0)
		peRatio := numberOr(stock, screener.FieldPERatio, 0)

		switch level {
		case RiskLow:
			// Large cap, low debt, steady dividend
			if marketCap > 500_000_000_000 && debtToEquity < 0.3 && dividendYield > 1.0 {
				filtered = append(filtered, stock)
			}

		case RiskMedium:
			// Mid cap, moderate debt
			if marketCap > 50_000_000_000 && marketCap < 500_000_000_000 && debtToEquity < 1.0 {
				filtered = append(filtered, stock)
			}

		case RiskHigh:
			// Small cap, or high P/E suggesting growth expectations
			if marketCap < 50_000_000_000 || peRatio > 30 {
				filtered = append(filtered, stock)
			}
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"risk_level": level,
		"input":      len(stocks),
		"passed":     len(filtered),
	}).Debug("Risk filter applied")

	return filtered
}

// numberOr reads a numeric field with a default for absent or null values
func numberOr(r screener.Record, key string, def float64) float64 {
	if v, ok := r.Number(key); ok {
		return v
	}
	return def
}
