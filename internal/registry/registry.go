package registry

import (
	"fmt"
	"sort"

	"github.com/wonny/screenhub/internal/aggregator"
	"github.com/wonny/screenhub/internal/providers/alphavantage"
	"github.com/wonny/screenhub/internal/providers/eodhd"
	"github.com/wonny/screenhub/internal/providers/finology"
	"github.com/wonny/screenhub/internal/providers/screenerin"
	"github.com/wonny/screenhub/internal/screener"
	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/logger"
	"github.com/wonny/screenhub/pkg/redis"
)

// Deps carries everything a provider constructor may need
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	Redis  *redis.Client
}

// Constructor builds a provider screener from shared dependencies
type Constructor func(deps Deps) (screener.Screener, error)

// Registry maps provider names to constructors.
// ⭐ SSOT: provider wiring happens only here
type Registry struct {
	constructors map[string]Constructor
	logger       *logger.Logger
}

// New creates an empty registry
func New(log *logger.Logger) *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		logger:       log.WithField("component", "registry"),
	}
}

// Register adds a named constructor, replacing any existing one
func (r *Registry) Register(name string, ctor Constructor) {
	r.constructors[name] = ctor
}

// Names returns registered provider names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs a single provider by name
func (r *Registry) Build(name string, deps Deps) (screener.Screener, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return ctor(deps)
}

// BuildAggregator constructs the named providers and registers the
// successful ones on a new aggregator. Providers that fail to build,
// typically for missing credentials, are logged and skipped so one
// unconfigured provider does not take the others down.
func (r *Registry) BuildAggregator(names []string, deps Deps) *aggregator.Aggregator {
	if len(names) == 0 {
		names = r.Names()
	}

	agg := aggregator.New(deps.Logger)

	for _, name := range names {
		s, err := r.Build(name, deps)
		if err != nil {
			r.logger.WithError(err).WithField("provider", name).Warn("Skipping provider")
			continue
		}
		agg.AddProvider(name, s)
	}

	return agg
}

// Default returns a registry with all built-in providers registered
func Default(log *logger.Logger) *Registry {
	r := New(log)

	r.Register("finology", func(deps Deps) (screener.Screener, error) {
		return finology.New(deps.Config.Finology, deps.Logger)
	})
	r.Register("eodhd", func(deps Deps) (screener.Screener, error) {
		return eodhd.New(deps.Config.EODHD, deps.Redis, deps.Logger)
	})
	r.Register("alphavantage", func(deps Deps) (screener.Screener, error) {
		return alphavantage.New(deps.Config.AlphaVantage, deps.Redis, deps.Logger)
	})
	r.Register("screenerin", func(deps Deps) (screener.Screener, error) {
		return screenerin.New(deps.Config.ScreenerIn, deps.Logger)
	})

	return r
}
