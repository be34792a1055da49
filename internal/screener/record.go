package screener

import "encoding/json"

// Well-known field names shared across providers. Providers normalize their
// native schemas to this vocabulary; not every provider populates every field.
const (
	FieldTicker        = "ticker"
	FieldName          = "name"
	FieldSector        = "sector"
	FieldPrice         = "price"
	FieldMarketCap     = "marketCap"
	FieldPERatio       = "peRatio"
	FieldDividendYield = "dividendYield"
	FieldROE           = "roe"
	FieldDebtToEquity  = "debtToEquity"

	// FieldProviders lists the providers that contributed to a combined
	// record, in merge order.
	FieldProviders = "providers"

	// FieldProvider names the provider a detail record came from.
	FieldProvider = "provider"
)

// Record is one stock's normalized attribute mapping from a single provider.
// Values are strings, numbers, or nested mappings; a nil value means the
// provider returned null for that field.
type Record map[string]interface{}

// Ticker returns the record's ticker symbol. The second return is false when
// the field is absent, null, or not a string; such records cannot be merged.
func (r Record) Ticker() (string, bool) {
	v, ok := r[FieldTicker]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Number returns the named field as a float64. Handles the numeric types
// that show up after JSON decoding and manual construction.
func (r Record) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Providers returns the contributing provider list of a combined record.
func (r Record) Providers() []string {
	v, ok := r[FieldProviders]
	if !ok {
		return nil
	}
	providers, _ := v.([]string)
	return providers
}

// Clone returns a shallow copy of the record. Nested mappings are shared;
// the providers list is copied so appends never alias the source.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	if providers := r.Providers(); providers != nil {
		out[FieldProviders] = append([]string(nil), providers...)
	}
	return out
}
