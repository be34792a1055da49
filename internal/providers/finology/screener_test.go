package finology

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
)

func newTestScreener(t *testing.T, handler http.HandlerFunc) *Screener {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := New(config.FinologyConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, logger.NewWriter(io.Discard))
	require.NoError(t, err)

	return s
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(config.FinologyConfig{BaseURL: "https://api.finology.in"}, logger.NewWriter(io.Discard))
	assert.Error(t, err)
}

func TestScreenNormalizesResults(t *testing.T) {
	var gotAuth string
	var gotQuery map[string][]string

	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{
					"symbol":      "TCS",
					"companyName": "Tata Consultancy Services",
					"latestPrice": 3900.5,
					"marketCap":   1.4e13,
					"sector":      "Technology",
					"peRatio":     30.2,
				},
				{
					"symbol":        "INFY",
					"companyName":   "Infosys",
					"dividendYield": nil,
				},
			},
		})
	})

	records, err := s.Screen(context.Background(), map[string]interface{}{
		"sector":       "Technology",
		"marketCapMin": 500_000_000_000.0,
		"limit":        5,
		"bogusParam":   "ignored",
	})

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Technology", gotQuery["sector"][0])
	assert.Equal(t, "500000000000", gotQuery["market_cap_min"][0], "market cap must not use exponent notation")
	assert.Equal(t, "5", gotQuery["limit"][0])
	assert.NotContains(t, gotQuery, "bogusParam", "unknown criteria are not forwarded")

	first := records[0]
	assert.Equal(t, "TCS", first["ticker"])
	assert.Equal(t, "Tata Consultancy Services", first["name"])
	assert.Equal(t, 3900.5, first["price"])
	assert.Equal(t, 30.2, first["peRatio"])

	// Nulls survive normalization so other providers can fill them
	second := records[1]
	assert.Contains(t, second, "dividendYield")
	assert.Nil(t, second["dividendYield"])
}

func TestScreenDefaultsLimitAndPage(t *testing.T) {
	var gotQuery map[string][]string

	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	})

	_, err := s.Screen(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "100", gotQuery["limit"][0])
	assert.Equal(t, "1", gotQuery["page"][0])
}

func TestScreenHTTPError(t *testing.T) {
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := s.Screen(context.Background(), nil)
	assert.Error(t, err)
}

func TestStockDetailsDropsNulls(t *testing.T) {
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stocks/TCS", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"symbol":      "TCS",
			"companyName": "Tata Consultancy Services",
			"latestPrice": 3900.5,
			"beta":        nil,
		})
	})

	details, err := s.StockDetails(context.Background(), "TCS")

	require.NoError(t, err)
	assert.Equal(t, "TCS", details["ticker"])
	assert.Equal(t, 3900.5, details["price"])
	assert.NotContains(t, details, "beta", "null fields are dropped from details")
	assert.NotContains(t, details, "industry")
}

func TestAvailableCriteria(t *testing.T) {
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {})

	schema := s.AvailableCriteria()

	assert.Contains(t, schema, "sector")
	assert.Contains(t, schema, "marketCapMin")
	assert.Contains(t, schema, "limit")
}
