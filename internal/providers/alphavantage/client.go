package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/httputil"
	"github.com/wonny/screenhub/pkg/logger"
	"github.com/wonny/screenhub/pkg/redis"
)

// Screener fetches stock data from the Alpha Vantage API. Alpha Vantage
// has no screener endpoint, so Screen evaluates criteria over a configured
// watchlist of symbols; its strength is the detail side.
// ⭐ SSOT: Alpha Vantage API calls happen only in this package
type Screener struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	watchlist  []string
}

// New creates an Alpha Vantage screener. The API key is required.
func New(cfg config.AlphaVantageConfig, cacheClient *redis.Client, log *logger.Logger) (*Screener, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Alpha Vantage API key is required (ALPHA_VANTAGE_API_KEY)")
	}

	return &Screener{
		httpClient: httputil.NewWithTimeout(log, 10*time.Second).DisableRetry(),
		cache:      redis.NewCache(cacheClient, "alphavantage"),
		logger:     log.WithField("provider", "alphavantage"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		watchlist:  cfg.Watchlist,
	}, nil
}

// query sends a request and decodes the response, surfacing the API's
// in-band error and throttle signals.
func (s *Screener) query(ctx context.Context, params url.Values) (map[string]interface{}, error) {
	params.Set("apikey", s.apiKey)

	resp, err := s.httpClient.Get(ctx, s.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("alphavantage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage unexpected status code: %d", resp.StatusCode)
	}

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("alphavantage response decode failed: %w", err)
	}

	// API errors come back as 200 responses with an error body
	if msg, ok := data["Error Message"].(string); ok {
		return nil, fmt.Errorf("alphavantage API error: %s", msg)
	}
	if note, ok := data["Note"].(string); ok {
		// Rate limit note; the data may still be missing
		s.logger.WithField("note", note).Warn("Alpha Vantage API note")
	}

	return data, nil
}

// fetchFunction calls one API function for a symbol, cached under its name
func (s *Screener) fetchFunction(ctx context.Context, function, symbol string) (map[string]interface{}, error) {
	cacheKey := fmt.Sprintf("%s:%s", function, symbol)

	var data map[string]interface{}
	err := s.cache.GetOrSet(ctx, cacheKey, &data, 6*time.Hour, func() (interface{}, error) {
		params := url.Values{}
		params.Set("function", function)
		params.Set("symbol", symbol)
		return s.query(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// companyOverview fetches the OVERVIEW document for a symbol
func (s *Screener) companyOverview(ctx context.Context, symbol string) (map[string]interface{}, error) {
	return s.fetchFunction(ctx, "OVERVIEW", symbol)
}

// toFloat parses Alpha Vantage's all-string numeric fields
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
