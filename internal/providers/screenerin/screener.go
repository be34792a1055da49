package screenerin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/screenhub/internal/screener"
	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/httputil"
	"github.com/wonny/screenhub/pkg/logger"
)

// Screener screens stocks by scraping screener.in result pages. No API
// key; the site serves public HTML tables for raw queries.
// ⭐ SSOT: screener.in requests happen only in this package
type Screener struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// New creates a screener.in scraping screener
func New(cfg config.ScreenerInConfig, log *logger.Logger) (*Screener, error) {
	return &Screener{
		httpClient: httputil.NewWithTimeout(log, 15*time.Second).DisableRetry(),
		logger:     log.WithField("provider", "screenerin"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// fetchHTML fetches a page with browser-like headers
func (s *Screener) fetchHTML(ctx context.Context, path string, params url.Values) (string, error) {
	fullURL := s.baseURL + path
	if len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	resp, err := s.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Accept":     "text/html",
	})
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// Screen runs a raw query built from the shared criteria and parses the
// result table. Criteria without a query-language mapping are ignored.
func (s *Screener) Screen(ctx context.Context, criteria screener.Criteria) ([]screener.Record, error) {
	query := buildQuery(criteria)

	params := url.Values{}
	params.Set("query", query)
	if page, ok := criteria.Number("page"); ok && page > 1 {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}

	html, err := s.fetchHTML(ctx, "/screen/raw/", params)
	if err != nil {
		return nil, err
	}

	records, err := parseScreenTable(html)
	if err != nil {
		return nil, fmt.Errorf("parse result table: %w", err)
	}

	if limit, ok := criteria.Number("limit"); ok && int(limit) > 0 && len(records) > int(limit) {
		records = records[:int(limit)]
	}

	s.logger.WithFields(map[string]interface{}{
		"query": query,
		"count": len(records),
	}).Debug("Scrape screen completed")

	return records, nil
}

// StockDetails scrapes a company page's ratio header
func (s *Screener) StockDetails(ctx context.Context, ticker string) (screener.Record, error) {
	html, err := s.fetchHTML(ctx, "/company/"+url.PathEscape(ticker)+"/", nil)
	if err != nil {
		return nil, err
	}

	details, err := parseCompanyPage(html)
	if err != nil {
		return nil, fmt.Errorf("parse company page: %w", err)
	}
	if len(details) == 0 {
		return screener.Record{}, nil
	}

	details[screener.FieldTicker] = ticker
	return details, nil
}

// queryClauses maps shared criteria to screener.in query-language clauses.
// Market caps are converted from absolute INR to crores.
var queryClauses = []struct {
	criterion string
	field     string
	op        string
	inCrores  bool
}{
	{"marketCapMin", "Market Capitalization", ">", true},
	{"marketCapMax", "Market Capitalization", "<", true},
	{"peRatioMin", "Price to earning", ">", false},
	{"peRatioMax", "Price to earning", "<", false},
	{"dividendYieldMin", "Dividend yield", ">", false},
	{"roeMin", "Return on equity", ">", false},
	{"debtToEquityMax", "Debt to equity", "<", false},
}

// buildQuery renders criteria into the site's query language
func buildQuery(criteria screener.Criteria) string {
	clauses := make([]string, 0, len(queryClauses))

	for _, c := range queryClauses {
		v, ok := criteria.Number(c.criterion)
		if !ok {
			continue
		}
		if c.inCrores {
			v = v / 1e7
		}
		clauses = append(clauses, fmt.Sprintf("%s %s %g", c.field, c.op, v))
	}

	if len(clauses) == 0 {
		// The raw endpoint needs at least one clause
		clauses = append(clauses, "Market Capitalization > 0")
	}

	return strings.Join(clauses, " AND ")
}

// AvailableCriteria describes the screening parameters this provider
// translates into its query language.
func (s *Screener) AvailableCriteria() screener.CriteriaSchema {
	schema := screener.CriteriaSchema{
		"limit": map[string]interface{}{
			"type":        "number",
			"description": "Maximum number of results to return",
		},
		"page": map[string]interface{}{
			"type":        "number",
			"description": "Result page number",
			"default":     1,
		},
	}

	for _, c := range queryClauses {
		schema[c.criterion] = map[string]interface{}{
			"type":        "number",
			"description": fmt.Sprintf("%s %s threshold", c.field, c.op),
		}
	}

	return schema
}
