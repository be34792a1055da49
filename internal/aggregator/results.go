package aggregator

import "github.com/wonny/screenhub/internal/screener"

// ProviderResults maps provider names to their screening results while
// preserving insertion order. Go maps iterate in random order, but the
// merge in CombineResults is only deterministic when providers are visited
// in the order they were inserted, so the order is tracked explicitly.
type ProviderResults struct {
	order   []string
	records map[string][]screener.Record
}

// NewProviderResults creates an empty result set
func NewProviderResults() *ProviderResults {
	return &ProviderResults{
		records: make(map[string][]screener.Record),
	}
}

// Set stores a provider's result list. A provider set twice keeps its
// original position.
func (r *ProviderResults) Set(provider string, records []screener.Record) {
	if _, exists := r.records[provider]; !exists {
		r.order = append(r.order, provider)
	}
	r.records[provider] = records
}

// Get returns a provider's result list
func (r *ProviderResults) Get(provider string) ([]screener.Record, bool) {
	records, ok := r.records[provider]
	return records, ok
}

// Providers returns provider names in insertion order
func (r *ProviderResults) Providers() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of providers with results
func (r *ProviderResults) Len() int {
	return len(r.order)
}

// CombineResults merges per-provider result lists into one list of combined
// records, one per distinct ticker, in first-seen-ticker order.
//
// Merge rules, per record encountered (providers visited in insertion
// order, records in each provider's native order):
//   - records without a usable ticker are dropped
//   - the first record for a ticker becomes the combined record, tagged
//     with a providers list
//   - later providers are appended to the providers list even when they
//     add no fields; their fields fill only gaps (absent or null values).
//     A non-null value already present is never overwritten.
//
// Input records are never mutated, so combining the same input twice
// yields structurally identical output.
func (a *Aggregator) CombineResults(results *ProviderResults) []screener.Record {
	byTicker := make(map[string]screener.Record)
	combined := make([]screener.Record, 0)

	for _, provider := range results.Providers() {
		records, _ := results.Get(provider)
		for _, record := range records {
			ticker, ok := record.Ticker()
			if !ok {
				continue
			}

			existing, seen := byTicker[ticker]
			if !seen {
				merged := record.Clone()
				merged[screener.FieldProviders] = []string{provider}
				byTicker[ticker] = merged
				combined = append(combined, merged)
				continue
			}

			// Always record the contributing provider, even when every
			// field is already populated
			existing[screener.FieldProviders] = append(existing.Providers(), provider)

			for key, value := range record {
				if key == screener.FieldProviders || value == nil {
					continue
				}
				if current, present := existing[key]; !present || current == nil {
					existing[key] = value
				}
			}
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"providers": results.Len(),
		"tickers":   len(combined),
	}).Debug("Combined provider results")

	return combined
}
