package aggregator

import (
	"context"
	"fmt"

	"github.com/wonny/screenhub/internal/screener"
)

// StockDetails fetches detail records for one ticker from multiple
// providers sequentially and folds them into a single mapping.
//
// The first provider returning a non-empty record becomes the base, tagged
// with a provider field. Each later non-empty record is nested in full
// under "<provider>_data" and additionally merged field-by-field into the
// top level, filling only absent or null fields (same first-writer-wins
// rule as CombineResults). Providers that fail or return nothing are
// logged and skipped. With no data from any provider the result is an
// empty record.
func (a *Aggregator) StockDetails(ctx context.Context, ticker string, providers ...string) screener.Record {
	if len(providers) == 0 {
		providers = a.order
	}

	details := screener.Record{}

	for _, provider := range providers {
		s, ok := a.providers[provider]
		if !ok {
			continue
		}

		record, err := s.StockDetails(ctx, ticker)
		if err != nil {
			a.logger.WithError(err).WithFields(map[string]interface{}{
				"provider": provider,
				"ticker":   ticker,
			}).Error("Failed to fetch stock details")
			continue
		}

		if len(record) == 0 {
			a.logger.WithFields(map[string]interface{}{
				"provider": provider,
				"ticker":   ticker,
			}).Debug("Provider returned no details")
			continue
		}

		tagged := record.Clone()
		tagged[screener.FieldProvider] = provider

		if len(details) == 0 {
			// First provider with data becomes the base record
			details = tagged
			continue
		}

		// Keep the full per-provider record under a nested key
		details[fmt.Sprintf("%s_data", provider)] = tagged

		// Fill gaps at the top level, never overwriting non-null values
		for key, value := range tagged {
			if key == screener.FieldProvider || value == nil {
				continue
			}
			if current, present := details[key]; !present || current == nil {
				details[key] = value
			}
		}
	}

	return details
}
