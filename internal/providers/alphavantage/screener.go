package alphavantage

import (
	"context"

	"github.com/wonny/screenhub/internal/screener"
)

// Screen evaluates the shared screening criteria over the configured
// watchlist using each symbol's company overview. Criteria this provider
// does not recognize are ignored.
func (s *Screener) Screen(ctx context.Context, criteria screener.Criteria) ([]screener.Record, error) {
	if len(s.watchlist) == 0 {
		s.logger.Warn("Watchlist is empty; nothing to screen")
		return []screener.Record{}, nil
	}

	limit := len(s.watchlist)
	if v, ok := criteria.Number("limit"); ok && int(v) > 0 {
		limit = int(v)
	}
	sector, _ := criteria.String("sector")

	records := make([]screener.Record, 0, limit)

	for _, symbol := range s.watchlist {
		if len(records) >= limit {
			break
		}

		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		overview, err := s.companyOverview(ctx, symbol)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Debug("Skipping symbol")
			continue
		}
		if len(overview) == 0 {
			continue
		}

		marketCap := toFloat(overview["MarketCapitalization"])
		peRatio := toFloat(overview["PERatio"])
		// Alpha Vantage reports the yield as a decimal
		divYield := toFloat(overview["DividendYield"]) * 100
		roe := toFloat(overview["ReturnOnEquityTTM"]) * 100

		if sector != "" && overview["Sector"] != sector {
			continue
		}
		if v, ok := criteria.Number("marketCapMin"); ok && marketCap < v {
			continue
		}
		if v, ok := criteria.Number("marketCapMax"); ok && marketCap > v {
			continue
		}
		if v, ok := criteria.Number("peRatioMin"); ok && peRatio < v {
			continue
		}
		if v, ok := criteria.Number("peRatioMax"); ok && peRatio > v {
			continue
		}
		if v, ok := criteria.Number("dividendYieldMin"); ok && divYield < v {
			continue
		}
		if v, ok := criteria.Number("roeMin"); ok && roe < v {
			continue
		}

		records = append(records, screener.Record{
			screener.FieldTicker:        overview["Symbol"],
			screener.FieldName:          overview["Name"],
			screener.FieldSector:        overview["Sector"],
			"industry":                  overview["Industry"],
			screener.FieldMarketCap:     marketCap,
			screener.FieldPERatio:       peRatio,
			screener.FieldDividendYield: divYield,
			screener.FieldROE:           roe,
			"eps":                       toFloat(overview["EPS"]),
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"watchlist": len(s.watchlist),
		"count":     len(records),
	}).Debug("Watchlist screen completed")

	return records, nil
}

// StockDetails combines the company overview with computed key metrics
// from the latest annual statements.
func (s *Screener) StockDetails(ctx context.Context, ticker string) (screener.Record, error) {
	overview, err := s.companyOverview(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(overview) == 0 {
		return screener.Record{}, nil
	}

	details := screener.Record{
		screener.FieldTicker:        overview["Symbol"],
		screener.FieldName:          overview["Name"],
		"description":               overview["Description"],
		screener.FieldSector:        overview["Sector"],
		"industry":                  overview["Industry"],
		"exchange":                  overview["Exchange"],
		"currency":                  overview["Currency"],
		"country":                   overview["Country"],
		screener.FieldMarketCap:     toFloat(overview["MarketCapitalization"]),
		screener.FieldPERatio:       toFloat(overview["PERatio"]),
		"pbRatio":                   toFloat(overview["PriceToBookRatio"]),
		screener.FieldDividendYield: toFloat(overview["DividendYield"]) * 100,
		"eps":                       toFloat(overview["EPS"]),
		"beta":                      toFloat(overview["Beta"]),
		"fiftyTwoWeekHigh":          toFloat(overview["52WeekHigh"]),
		"fiftyTwoWeekLow":           toFloat(overview["52WeekLow"]),
	}

	for key, value := range details {
		if value == nil {
			delete(details, key)
		}
	}

	s.addKeyMetrics(ctx, ticker, details)

	return details, nil
}

// addKeyMetrics derives margin/return/leverage ratios from the latest
// annual income statement and balance sheet. Statement fetch failures are
// logged and leave the overview-only details intact.
func (s *Screener) addKeyMetrics(ctx context.Context, ticker string, details screener.Record) {
	income, err := s.fetchFunction(ctx, "INCOME_STATEMENT", ticker)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Debug("Income statement unavailable")
		return
	}
	balance, err := s.fetchFunction(ctx, "BALANCE_SHEET", ticker)
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Debug("Balance sheet unavailable")
		return
	}

	latestIncome := latestAnnualReport(income)
	latestBalance := latestAnnualReport(balance)
	if latestIncome == nil || latestBalance == nil {
		return
	}

	revenue := toFloat(latestIncome["totalRevenue"])
	netIncome := toFloat(latestIncome["netIncome"])
	assets := toFloat(latestBalance["totalAssets"])
	equity := toFloat(latestBalance["totalShareholderEquity"])
	debt := toFloat(latestBalance["shortLongTermDebtTotal"])

	if revenue != 0 {
		details["netProfitMargin"] = netIncome / revenue * 100
	}
	if equity != 0 {
		details[screener.FieldROE] = netIncome / equity * 100
		details[screener.FieldDebtToEquity] = debt / equity
	}
	if assets != 0 {
		details["roa"] = netIncome / assets * 100
	}
}

// latestAnnualReport returns the most recent annualReports entry
func latestAnnualReport(statement map[string]interface{}) map[string]interface{} {
	reports, _ := statement["annualReports"].([]interface{})
	if len(reports) == 0 {
		return nil
	}
	latest, _ := reports[0].(map[string]interface{})
	return latest
}

// AvailableCriteria describes the screening parameters this provider
// recognizes. Screening only covers the configured watchlist.
func (s *Screener) AvailableCriteria() screener.CriteriaSchema {
	return screener.CriteriaSchema{
		"sector": map[string]interface{}{
			"type":        "string",
			"description": "Exact sector name as reported by Alpha Vantage",
		},
		"marketCapMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum market capitalization in USD",
		},
		"marketCapMax": map[string]interface{}{
			"type":        "number",
			"description": "Maximum market capitalization in USD",
		},
		"peRatioMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum P/E ratio",
		},
		"peRatioMax": map[string]interface{}{
			"type":        "number",
			"description": "Maximum P/E ratio",
		},
		"dividendYieldMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum dividend yield percentage",
		},
		"roeMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum return on equity percentage",
		},
		"limit": map[string]interface{}{
			"type":        "number",
			"description": "Maximum number of results to return",
			"default":     "watchlist size",
		},
		"watchlist": map[string]interface{}{
			"type":        "info",
			"description": "Screening is limited to ALPHA_VANTAGE_WATCHLIST symbols",
			"symbols":     len(s.watchlist),
		},
	}
}
