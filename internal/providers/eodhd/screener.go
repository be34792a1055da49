package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/screenhub/internal/screener"
	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/httputil"
	"github.com/wonny/screenhub/pkg/logger"
	"github.com/wonny/screenhub/pkg/redis"
)

// Screener screens stocks through the EODHD Financial Data APIs.
// EODHD has no server-side screener, so a screen lists the exchange's
// symbols and filters their fundamentals client-side. That makes it
// API-call heavy: requests are rate limited and responses cached.
// ⭐ SSOT: EODHD API calls happen only in this package
type Screener struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
	apiToken   string
	cacheTTL   time.Duration
}

// symbolInfo is one entry of the exchange symbol list
type symbolInfo struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

// New creates an EODHD screener. The API token is required.
func New(cfg config.EODHDConfig, cacheClient *redis.Client, log *logger.Logger) (*Screener, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("EODHD API token is required (EODHD_API_TOKEN)")
	}

	return &Screener{
		httpClient: httputil.NewWithTimeout(log, 10*time.Second).
			DisableRetry().
			WithRateLimit(cfg.RateLimit),
		cache:    redis.NewCache(cacheClient, "eodhd"),
		logger:   log.WithField("provider", "eodhd"),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
		cacheTTL: cfg.CacheTTL,
	}, nil
}

// getJSON sends an authenticated GET request and decodes into dest
func (s *Screener) getJSON(ctx context.Context, path string, dest interface{}) error {
	params := url.Values{}
	params.Set("api_token", s.apiToken)
	params.Set("fmt", "json")

	fullURL := fmt.Sprintf("%s/%s?%s", s.baseURL, path, params.Encode())

	resp, err := s.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("eodhd request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("eodhd unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("eodhd response decode failed: %w", err)
	}

	return nil
}

// symbolList returns all symbols on an exchange, cached
func (s *Screener) symbolList(ctx context.Context, exchange string) ([]symbolInfo, error) {
	var symbols []symbolInfo
	err := s.cache.GetOrSet(ctx, "symbols:"+exchange, &symbols, s.cacheTTL, func() (interface{}, error) {
		var fetched []symbolInfo
		if err := s.getJSON(ctx, "exchange-symbol-list/"+url.PathEscape(exchange), &fetched); err != nil {
			return nil, err
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// fundamentals returns the fundamentals document for one symbol, cached
func (s *Screener) fundamentals(ctx context.Context, code string) (map[string]interface{}, error) {
	var data map[string]interface{}
	err := s.cache.GetOrSet(ctx, "fundamentals:"+code, &data, s.cacheTTL, func() (interface{}, error) {
		var fetched map[string]interface{}
		if err := s.getJSON(ctx, "fundamentals/"+url.PathEscape(code), &fetched); err != nil {
			return nil, err
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// screenDefaults are applied for criteria the caller did not provide.
// Criteria this provider does not recognize are silently ignored.
var screenDefaults = map[string]float64{
	"market_cap_min": 1e8,
	"market_cap_max": 1e12,
	"pe_ratio_min":   0.0,
	"pe_ratio_max":   100.0,
	"div_yield_min":  0.0,
	"div_yield_max":  0.1,
	"price_min":      1.0,
	"price_max":      1e4,
	"limit":          100,
}

// Screen lists the exchange's symbols and keeps those whose fundamentals
// fall inside the configured ranges, up to the limit.
func (s *Screener) Screen(ctx context.Context, criteria screener.Criteria) ([]screener.Record, error) {
	bounds := make(map[string]float64, len(screenDefaults))
	for key, def := range screenDefaults {
		bounds[key] = def
		if v, ok := criteria.Number(key); ok {
			bounds[key] = v
		}
	}

	exchange, ok := criteria.String("exchange")
	if !ok {
		exchange = "NSE"
	}

	symbols, err := s.symbolList(ctx, exchange)
	if err != nil {
		return nil, fmt.Errorf("symbol list for %s: %w", exchange, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"exchange": exchange,
		"symbols":  len(symbols),
	}).Info("Applying screen filters")

	limit := int(bounds["limit"])
	records := make([]screener.Record, 0, limit)

	for processed, sym := range symbols {
		if len(records) >= limit {
			break
		}

		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		if sym.Code == "" {
			continue
		}

		if processed > 0 && processed%50 == 0 {
			s.logger.WithFields(map[string]interface{}{
				"processed": processed,
				"matches":   len(records),
			}).Debug("Screen progress")
		}

		data, err := s.fundamentals(ctx, sym.Code)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", sym.Code).Debug("Skipping symbol")
			continue
		}

		general, _ := data["General"].(map[string]interface{})

		marketCap := toFloat(general["MarketCapitalization"])
		peRatio := toFloat(general["PERatio"])
		divYield := toFloat(general["DividendYield"])
		price := latestClose(data)

		if marketCap < bounds["market_cap_min"] || marketCap > bounds["market_cap_max"] {
			continue
		}
		if peRatio < bounds["pe_ratio_min"] || peRatio > bounds["pe_ratio_max"] {
			continue
		}
		if divYield < bounds["div_yield_min"] || divYield > bounds["div_yield_max"] {
			continue
		}
		if price < bounds["price_min"] || price > bounds["price_max"] {
			continue
		}

		records = append(records, screener.Record{
			screener.FieldTicker:        sym.Code,
			screener.FieldName:          general["Name"],
			screener.FieldSector:        general["Sector"],
			"industry":                  general["Industry"],
			screener.FieldMarketCap:     marketCap,
			screener.FieldPERatio:       peRatio,
			screener.FieldDividendYield: divYield,
			screener.FieldPrice:         price,
			"exchange":                  exchange,
		})
	}

	s.logger.WithField("count", len(records)).Info("Screening complete")
	return records, nil
}

// latestClose returns the close of the most recent EOD entry, 0 if absent
func latestClose(data map[string]interface{}) float64 {
	hist, _ := data["EOD"].([]interface{})
	if len(hist) == 0 {
		return 0
	}
	latest, _ := hist[len(hist)-1].(map[string]interface{})
	return toFloat(latest["close"])
}

// toFloat converts the mixed numeric/string values EODHD returns
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}
