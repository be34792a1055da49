package aggregator

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/screenhub/internal/screener"
	"github.com/wonny/screenhub/pkg/logger"
)

// maxConcurrentScreens caps simultaneously in-flight provider calls so a
// large provider roster cannot explode outbound connections.
const maxConcurrentScreens = 5

// Aggregator fans screening queries out to every configured provider,
// merges per-ticker records across them, and offers filtering and ranking
// over the merged set.
//
// The provider map is read-only during an aggregation call; callers must
// not add providers while a screen is executing.
type Aggregator struct {
	providers map[string]screener.Screener
	order     []string // registration order
	logger    *logger.Logger
}

// New creates an Aggregator with no providers registered
func New(log *logger.Logger) *Aggregator {
	return &Aggregator{
		providers: make(map[string]screener.Screener),
		logger:    log.WithField("module", "aggregator"),
	}
}

// AddProvider registers a provider adapter under the given name.
// Re-registering a name replaces the adapter but keeps its original
// position in the iteration order.
func (a *Aggregator) AddProvider(name string, s screener.Screener) {
	if _, exists := a.providers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.providers[name] = s
}

// ProviderNames returns registered provider names in registration order
func (a *Aggregator) ProviderNames() []string {
	return append([]string(nil), a.order...)
}

// HasProvider reports whether a provider is registered
func (a *Aggregator) HasProvider(name string) bool {
	_, ok := a.providers[name]
	return ok
}

// AvailableCriteria returns each registered provider's criteria schema,
// keyed by provider name.
func (a *Aggregator) AvailableCriteria() map[string]screener.CriteriaSchema {
	schemas := make(map[string]screener.CriteriaSchema, len(a.providers))
	for name, s := range a.providers {
		schemas[name] = s.AvailableCriteria()
	}
	return schemas
}

// ScreenWithProvider screens stocks using a single named provider. Returns
// ErrProviderNotFound (wrapped) when the provider is not registered; the
// adapter's own result and error are otherwise passed through unchanged.
func (a *Aggregator) ScreenWithProvider(ctx context.Context, provider string, criteria screener.Criteria) ([]screener.Record, error) {
	s, ok := a.providers[provider]
	if !ok {
		a.logger.WithField("provider", provider).Error("Screener provider not found")
		return nil, fmt.Errorf("%w: %q", screener.ErrProviderNotFound, provider)
	}

	return s.Screen(ctx, criteria)
}

// ScreenParallel screens stocks with multiple providers concurrently. With
// no explicit providers every registered provider is used. Unregistered
// names are silently skipped. Each provider's call is isolated: a failure
// (error or panic) is logged and recorded as an empty result for that
// provider, never aborting a sibling.
func (a *Aggregator) ScreenParallel(ctx context.Context, criteria screener.Criteria, providers ...string) *ProviderResults {
	if len(providers) == 0 {
		providers = a.order
	}

	// Keep only registered providers, preserving request order
	requested := make([]string, 0, len(providers))
	for _, name := range providers {
		if _, ok := a.providers[name]; ok {
			requested = append(requested, name)
		}
	}

	slots := make([][]screener.Record, len(requested))

	workers := len(requested)
	if workers > maxConcurrentScreens {
		workers = maxConcurrentScreens
	}

	jobs := make(chan int, len(requested))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				slots[idx] = a.screenSafe(ctx, requested[idx], criteria)
			}
		}()
	}

	for idx := range requested {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()

	results := NewProviderResults()
	for idx, name := range requested {
		results.Set(name, slots[idx])
	}

	a.logger.WithFields(map[string]interface{}{
		"providers": len(requested),
		"workers":   workers,
	}).Debug("Parallel screening completed")

	return results
}

// screenSafe runs one provider's screen call, converting errors and panics
// into an empty result so one provider can never take down the fan-out.
func (a *Aggregator) screenSafe(ctx context.Context, provider string, criteria screener.Criteria) (records []screener.Record) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(map[string]interface{}{
				"provider": provider,
				"panic":    r,
			}).Error("Screener panicked")
			records = []screener.Record{}
		}
	}()

	records, err := a.providers[provider].Screen(ctx, criteria)
	if err != nil {
		a.logger.WithError(err).WithField("provider", provider).Error("Screening failed")
		return []screener.Record{}
	}

	if records == nil {
		records = []screener.Record{}
	}

	a.logger.WithFields(map[string]interface{}{
		"provider": provider,
		"count":    len(records),
	}).Debug("Provider screen completed")

	return records
}
