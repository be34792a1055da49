package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/screenhub/internal/screener"
)

func TestFilterByRiskLow(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "PASS", "marketCap": 600_000_000_000.0, "debtToEquity": 0.2, "dividendYield": 1.5},
		{"ticker": "CAP_EDGE", "marketCap": 500_000_000_000.0, "debtToEquity": 0.2, "dividendYield": 1.5},
		{"ticker": "DEBT", "marketCap": 600_000_000_000.0, "debtToEquity": 0.5, "dividendYield": 1.5},
		{"ticker": "YIELD", "marketCap": 600_000_000_000.0, "debtToEquity": 0.2, "dividendYield": 0.5},
		{"ticker": "NO_DEBT_FIELD", "marketCap": 600_000_000_000.0, "dividendYield": 1.5},
	}

	filtered := agg.FilterByRisk(stocks, "low")

	tickers := tickersOf(filtered)
	assert.Equal(t, []string{"PASS"}, tickers)
}

func TestFilterByRiskMediumBoundaries(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "MID", "marketCap": 100_000_000_000.0, "debtToEquity": 0.5},
		{"ticker": "AT_LOWER", "marketCap": 50_000_000_000.0, "debtToEquity": 0.5},  // strict >
		{"ticker": "AT_UPPER", "marketCap": 500_000_000_000.0, "debtToEquity": 0.5}, // strict <
		{"ticker": "LEVERED", "marketCap": 100_000_000_000.0, "debtToEquity": 1.0},  // strict <
		{"ticker": "NO_CAP", "debtToEquity": 0.5},                                   // missing cap -> 0
	}

	filtered := agg.FilterByRisk(stocks, "medium")

	assert.Equal(t, []string{"MID"}, tickersOf(filtered))
}

func TestFilterByRiskHigh(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "SMALL", "marketCap": 10_000_000_000.0, "peRatio": 15.0},
		{"ticker": "GROWTH", "marketCap": 900_000_000_000.0, "peRatio": 45.0},
		{"ticker": "NEITHER", "marketCap": 900_000_000_000.0, "peRatio": 15.0},
		{"ticker": "AT_CAP", "marketCap": 50_000_000_000.0, "peRatio": 30.0}, // both strict
		{"ticker": "NO_FIELDS"},                                             // cap missing -> 0 < 50e9
	}

	filtered := agg.FilterByRisk(stocks, "high")

	assert.Equal(t, []string{"SMALL", "GROWTH", "NO_FIELDS"}, tickersOf(filtered))
}

func TestFilterByRiskUnknownLevelPassesAll(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "A"},
		{"ticker": "B"},
	}

	filtered := agg.FilterByRisk(stocks, "extreme")

	assert.Equal(t, stocks, filtered, "unknown risk level returns input unchanged")
}

func TestFilterByRiskCaseInsensitive(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "SMALL", "marketCap": 1_000_000_000.0},
	}

	filtered := agg.FilterByRisk(stocks, "HIGH")

	assert.Len(t, filtered, 1)
}

func tickersOf(records []screener.Record) []string {
	tickers := make([]string, 0, len(records))
	for _, r := range records {
		if t, ok := r.Ticker(); ok {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
