package screener

import (
	"context"
	"errors"
)

// ErrProviderNotFound is returned when a requested provider name has no
// registered adapter.
var ErrProviderNotFound = errors.New("screener provider not found")

// Criteria is a free-form screening criteria mapping. Providers pick out the
// keys they understand and silently ignore the rest; there is no call-time
// validation against CriteriaSchema.
type Criteria map[string]interface{}

// Number returns the named criterion as a float64
func (c Criteria) Number(key string) (float64, bool) {
	return Record(c).Number(key)
}

// String returns the named criterion as a string
func (c Criteria) String(key string) (string, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// CriteriaSchema describes a provider's recognized screening parameters:
// their types, allowed ranges or enumerations, and defaults. Descriptive
// only; used by the providers CLI command and GET /api/providers.
type CriteriaSchema map[string]interface{}

// Screener is the capability set every provider adapter implements.
// Adapters absorb their own transport and parse faults where they can;
// errors they do return are logged and converted to empty results by the
// aggregator, never propagated across providers.
type Screener interface {
	// Screen returns stocks matching the given criteria, normalized to the
	// shared field vocabulary. The returned list preserves the provider's
	// native result order.
	Screen(ctx context.Context, criteria Criteria) ([]Record, error)

	// AvailableCriteria describes the screening parameters this provider
	// recognizes. No side effects.
	AvailableCriteria() CriteriaSchema

	// StockDetails returns detailed information for a single ticker. An
	// empty record means the provider has no data for the ticker.
	StockDetails(ctx context.Context, ticker string) (Record, error)
}
