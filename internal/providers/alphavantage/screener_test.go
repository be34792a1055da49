package alphavantage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/logger"
	"github.com/wonny/screenhub/pkg/redis"
)

func overviewDoc(symbol, sector, marketCap, pe, dy string) map[string]string {
	return map[string]string{
		"Symbol":               symbol,
		"Name":                 symbol + " Inc",
		"Sector":               sector,
		"MarketCapitalization": marketCap,
		"PERatio":              pe,
		"DividendYield":        dy,
		"EPS":                  "6.1",
	}
}

func newTestScreener(t *testing.T, watchlist []string, handler http.HandlerFunc) *Screener {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := New(config.AlphaVantageConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		Watchlist: watchlist,
	}, redis.Disabled(), logger.NewWriter(io.Discard))
	require.NoError(t, err)

	return s
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(config.AlphaVantageConfig{}, redis.Disabled(), logger.NewWriter(io.Discard))
	assert.Error(t, err)
}

func TestScreenFiltersWatchlist(t *testing.T) {
	overviews := map[string]map[string]string{
		"AAPL": overviewDoc("AAPL", "Technology", "3000000000000", "28.5", "0.005"),
		"KO":   overviewDoc("KO", "Consumer Defensive", "260000000000", "24.1", "0.031"),
		"PLTR": overviewDoc("PLTR", "Technology", "50000000000", "250.0", "0"),
	}

	s := newTestScreener(t, []string{"AAPL", "KO", "PLTR"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		json.NewEncoder(w).Encode(overviews[r.URL.Query().Get("symbol")])
	})

	records, err := s.Screen(context.Background(), map[string]interface{}{
		"sector":     "Technology",
		"peRatioMax": 100.0,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "AAPL", rec["ticker"])
	assert.Equal(t, 3e12, rec["marketCap"])
	assert.Equal(t, 28.5, rec["peRatio"])
	assert.InDelta(t, 0.5, rec["dividendYield"].(float64), 1e-9, "yield is normalized to percent")
}

func TestScreenEmptyWatchlist(t *testing.T) {
	s := newTestScreener(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected with an empty watchlist")
	})

	records, err := s.Screen(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestQuerySurfacesAPIError(t *testing.T) {
	s := newTestScreener(t, []string{"BAD"}, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"Error Message": "Invalid API call.",
		})
	})

	details, err := s.StockDetails(context.Background(), "BAD")

	assert.Error(t, err)
	assert.Nil(t, details)
}

func TestStockDetailsComputesKeyMetrics(t *testing.T) {
	s := newTestScreener(t, []string{"AAPL"}, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "OVERVIEW":
			json.NewEncoder(w).Encode(overviewDoc("AAPL", "Technology", "3000000000000", "28.5", "0.005"))
		case "INCOME_STATEMENT":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"annualReports": []map[string]string{
					{"totalRevenue": "400000000000", "netIncome": "100000000000"},
				},
			})
		case "BALANCE_SHEET":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"annualReports": []map[string]string{
					{
						"totalAssets":            "350000000000",
						"totalShareholderEquity": "60000000000",
						"shortLongTermDebtTotal": "120000000000",
					},
				},
			})
		}
	})

	details, err := s.StockDetails(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", details["ticker"])
	assert.InDelta(t, 25.0, details["netProfitMargin"].(float64), 1e-9)
	assert.InDelta(t, 166.666666, details["roe"].(float64), 1e-3)
	assert.InDelta(t, 2.0, details["debtToEquity"].(float64), 1e-9)
	assert.InDelta(t, 28.571428, details["roa"].(float64), 1e-3)
}

func TestStockDetailsWithoutStatements(t *testing.T) {
	s := newTestScreener(t, []string{"AAPL"}, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "OVERVIEW":
			json.NewEncoder(w).Encode(overviewDoc("AAPL", "Technology", "3000000000000", "28.5", "0.005"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	details, err := s.StockDetails(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", details["ticker"])
	assert.NotContains(t, details, "netProfitMargin")
}
