package eodhd

import (
	"context"

	"github.com/wonny/screenhub/internal/screener"
)

// StockDetails fetches the fundamentals document for one ticker and
// normalizes it to the shared field vocabulary.
func (s *Screener) StockDetails(ctx context.Context, ticker string) (screener.Record, error) {
	data, err := s.fundamentals(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		s.logger.WithField("ticker", ticker).Warn("No fundamentals returned")
		return screener.Record{}, nil
	}

	general, _ := data["General"].(map[string]interface{})

	details := screener.Record{
		screener.FieldTicker:        general["Symbol"],
		screener.FieldName:          general["Name"],
		"description":               general["Description"],
		screener.FieldSector:        general["Sector"],
		"industry":                  general["Industry"],
		"country":                   general["Country"],
		"exchange":                  general["Exchange"],
		"currency":                  general["Currency"],
		screener.FieldMarketCap:     general["MarketCapitalization"],
		screener.FieldPERatio:       general["PERatio"],
		"pbRatio":                   general["PBRatio"],
		screener.FieldDividendYield: general["DividendYield"],
		"dividendShare":             general["DividendShare"],
		"eps":                       general["EPS"],
		screener.FieldROE:           general["ROE"],
		"roa":                       general["ROA"],
		screener.FieldDebtToEquity:  general["DebtToEquity"],
		"currentRatio":              general["CurrentRatio"],
		"beta":                      general["Beta"],
		"fiftyTwoWeekHigh":          general["52WeekHigh"],
		"fiftyTwoWeekLow":           general["52WeekLow"],
		"financials": map[string]interface{}{
			"IncomeStatement": data["Income_Statement"],
			"BalanceSheet":    data["Balance_Sheet"],
			"CashFlow":        data["Cash_Flow"],
		},
	}

	if price := latestClose(data); price > 0 {
		details["latestPrice"] = price
	}

	for key, value := range details {
		if value == nil {
			delete(details, key)
		}
	}

	return details, nil
}

// AvailableCriteria describes the screening parameters EODHD recognizes.
// Note this provider keeps its native snake_case parameter names; shared
// camelCase criteria are ignored and the documented defaults apply.
func (s *Screener) AvailableCriteria() screener.CriteriaSchema {
	return screener.CriteriaSchema{
		"exchange": map[string]interface{}{
			"type":        "string",
			"description": "Stock exchange to screen",
			"options":     []string{"NSE", "BSE", "US"},
			"default":     "NSE",
		},
		"market_cap_min": map[string]interface{}{
			"type":        "number",
			"description": "Minimum market capitalization in local currency",
			"default":     1e8,
			"examples":    []float64{1e8, 1e9, 1e10},
		},
		"market_cap_max": map[string]interface{}{
			"type":        "number",
			"description": "Maximum market capitalization in local currency",
			"default":     1e12,
			"examples":    []float64{1e10, 1e11, 1e12},
		},
		"pe_ratio_min": map[string]interface{}{
			"type":        "number",
			"description": "Minimum P/E ratio",
			"default":     0.0,
			"examples":    []float64{0, 5, 10},
		},
		"pe_ratio_max": map[string]interface{}{
			"type":        "number",
			"description": "Maximum P/E ratio",
			"default":     100.0,
			"examples":    []float64{20, 50, 100},
		},
		"div_yield_min": map[string]interface{}{
			"type":        "number",
			"description": "Minimum dividend yield (as decimal, not percentage)",
			"default":     0.0,
			"examples":    []float64{0.0, 0.01, 0.02},
		},
		"div_yield_max": map[string]interface{}{
			"type":        "number",
			"description": "Maximum dividend yield (as decimal, not percentage)",
			"default":     0.1,
			"examples":    []float64{0.05, 0.07, 0.1},
		},
		"price_min": map[string]interface{}{
			"type":        "number",
			"description": "Minimum stock price",
			"default":     1.0,
			"examples":    []float64{1, 10, 50},
		},
		"price_max": map[string]interface{}{
			"type":        "number",
			"description": "Maximum stock price",
			"default":     1e4,
			"examples":    []float64{100, 1000, 10000},
		},
		"limit": map[string]interface{}{
			"type":        "number",
			"description": "Maximum number of results to return",
			"default":     100,
			"examples":    []int{10, 20, 50, 100},
		},
	}
}
