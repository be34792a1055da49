package finology

import (
	"fmt"
	"strconv"

	"github.com/wonny/screenhub/internal/screener"
)

// AvailableCriteria describes the screening parameters Finology recognizes
func (s *Screener) AvailableCriteria() screener.CriteriaSchema {
	return screener.CriteriaSchema{
		"sector": []string{
			"Technology", "Financials", "Healthcare", "Consumer Goods",
			"Industrials", "Utilities", "Materials", "Energy",
			"Communication Services", "Real Estate",
		},
		"marketCapMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum market capitalization in INR",
			"examples":    []float64{1e9, 1e10, 1e11},
		},
		"marketCapMax": map[string]interface{}{
			"type":        "number",
			"description": "Maximum market capitalization in INR",
			"examples":    []float64{1e10, 1e11, 1e12},
		},
		"exchange": []string{"NSE", "BSE"},
		"peRatioMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum P/E ratio",
			"examples":    []float64{0, 5, 10},
		},
		"peRatioMax": map[string]interface{}{
			"type":        "number",
			"description": "Maximum P/E ratio",
			"examples":    []float64{15, 20, 30, 50},
		},
		"dividendYieldMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum dividend yield percentage",
			"examples":    []float64{1, 2, 3, 5},
		},
		"roeMin": map[string]interface{}{
			"type":        "number",
			"description": "Minimum return on equity percentage",
			"examples":    []float64{10, 15, 20},
		},
		"debtToEquityMax": map[string]interface{}{
			"type":        "number",
			"description": "Maximum debt to equity ratio",
			"examples":    []float64{0.5, 1, 2},
		},
		"limit": map[string]interface{}{
			"type":        "number",
			"description": "Maximum number of results to return",
			"default":     100,
			"examples":    []int{10, 25, 50, 100},
		},
		"page": map[string]interface{}{
			"type":        "number",
			"description": "Page number for pagination",
			"default":     1,
			"examples":    []int{1, 2, 3},
		},
	}
}

// queryValue renders a criteria value as a query parameter. Floats are
// formatted without exponent notation so large market caps survive intact.
func queryValue(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprintf("%v", v)
	}
}
