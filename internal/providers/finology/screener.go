package finology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/screenhub/internal/screener"
	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/httputil"
	"github.com/wonny/screenhub/pkg/logger"
)

// Screener screens stocks through the Finology Ticker API
// ⭐ SSOT: Finology API calls happen only in this package
type Screener struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// New creates a Finology screener. The API key is required.
func New(cfg config.FinologyConfig, log *logger.Logger) (*Screener, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("finology API key is required (FINOLOGY_API_KEY)")
	}

	return &Screener{
		httpClient: httputil.NewWithTimeout(log, 10*time.Second).DisableRetry(),
		logger:     log.WithField("provider", "finology"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// get sends an authenticated GET request and decodes the JSON response
func (s *Screener) get(ctx context.Context, path string, params url.Values) (map[string]interface{}, error) {
	fullURL := s.baseURL + path
	if len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	resp, err := s.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("finology request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finology unexpected status code: %d", resp.StatusCode)
	}

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("finology response decode failed: %w", err)
	}

	return data, nil
}

// Screen queries the Finology screener endpoint and normalizes the results
// to the shared field vocabulary.
func (s *Screener) Screen(ctx context.Context, criteria screener.Criteria) ([]screener.Record, error) {
	params := url.Values{}

	// Translate shared criteria names into the API's snake_case params;
	// unrecognized criteria are ignored
	for shared, native := range screenParams {
		if v, ok := criteria[shared]; ok && v != nil {
			params.Set(native, queryValue(v))
		}
	}
	if params.Get("limit") == "" {
		params.Set("limit", "100")
	}
	if params.Get("page") == "" {
		params.Set("page", "1")
	}

	data, err := s.get(ctx, "/v1/screener/search", params)
	if err != nil {
		return nil, err
	}

	rawResults, _ := data["results"].([]interface{})

	records := make([]screener.Record, 0, len(rawResults))
	for _, raw := range rawResults {
		stock, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		// Null values are kept so a later provider can fill them in
		records = append(records, screener.Record{
			screener.FieldTicker:        stock["symbol"],
			screener.FieldName:          stock["companyName"],
			screener.FieldPrice:         stock["latestPrice"],
			screener.FieldMarketCap:     stock["marketCap"],
			screener.FieldSector:        stock["sector"],
			screener.FieldPERatio:       stock["peRatio"],
			screener.FieldDividendYield: stock["dividendYield"],
			screener.FieldROE:           stock["roe"],
			screener.FieldDebtToEquity:  stock["debtToEquity"],
		})
	}

	s.logger.WithField("count", len(records)).Debug("Finology screen completed")
	return records, nil
}

// StockDetails fetches detailed information for a single ticker
func (s *Screener) StockDetails(ctx context.Context, ticker string) (screener.Record, error) {
	data, err := s.get(ctx, "/v1/stocks/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		s.logger.WithField("ticker", ticker).Warn("No details returned")
		return screener.Record{}, nil
	}

	details := screener.Record{
		screener.FieldTicker:        data["symbol"],
		screener.FieldName:          data["companyName"],
		screener.FieldSector:        data["sector"],
		"industry":                  data["industry"],
		screener.FieldPrice:         data["latestPrice"],
		"change":                    data["change"],
		"changePercent":             data["changePercent"],
		"open":                      data["open"],
		"high":                      data["high"],
		"low":                       data["low"],
		"volume":                    data["volume"],
		screener.FieldMarketCap:     data["marketCap"],
		screener.FieldPERatio:       data["peRatio"],
		screener.FieldDividendYield: data["dividendYield"],
		screener.FieldROE:           data["roe"],
		"roa":                       data["roa"],
		screener.FieldDebtToEquity:  data["debtToEquity"],
		"currentRatio":              data["currentRatio"],
		"eps":                       data["ttmEPS"],
		"beta":                      data["beta"],
		"fiftyTwoWeekHigh":          data["week52High"],
		"fiftyTwoWeekLow":           data["week52Low"],
		"ytdChangePercent":          data["ytdChangePercent"],
		"financials":                data["financials"],
		"balanceSheet":              data["balanceSheet"],
		"cashFlow":                  data["cashFlow"],
	}

	// Details drop nulls entirely, unlike screen results
	for key, value := range details {
		if value == nil {
			delete(details, key)
		}
	}

	return details, nil
}

// screenParams maps shared criteria names to Finology query parameters
var screenParams = map[string]string{
	"sector":           "sector",
	"marketCapMin":     "market_cap_min",
	"marketCapMax":     "market_cap_max",
	"exchange":         "exchange",
	"peRatioMin":       "pe_ratio_min",
	"peRatioMax":       "pe_ratio_max",
	"dividendYieldMin": "dividend_yield_min",
	"roeMin":           "roe_min",
	"debtToEquityMax":  "debt_to_equity_max",
	"limit":            "limit",
	"page":             "page",
}
