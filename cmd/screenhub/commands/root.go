package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/screenhub/internal/aggregator"
	"github.com/wonny/screenhub/internal/registry"
	"github.com/wonny/screenhub/pkg/config"
	"github.com/wonny/screenhub/pkg/logger"
	"github.com/wonny/screenhub/pkg/redis"
)

var (
	// Global flags
	verbose       bool
	providerNames []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screenhub",
	Short: "ScreenHub - multi-provider stock screening aggregator",
	Long: `ScreenHub Unified CLI

Screens stocks across multiple data providers in parallel and merges
the results into a single view per ticker.

Usage:
  go run ./cmd/screenhub [command]

Examples:
  go run ./cmd/screenhub api
  go run ./cmd/screenhub screen --criteria marketCapMin=50000000000 --risk low
  go run ./cmd/screenhub details AAPL
  go run ./cmd/screenhub providers`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVar(&providerNames, "providers", nil, "providers to use (default: all configured)")
}

// setup loads configuration and builds the aggregator shared by all
// commands. The Redis client must be closed by the caller.
func setup() (*config.Config, *logger.Logger, *redis.Client, *aggregator.Aggregator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	deps := registry.Deps{Config: cfg, Logger: log, Redis: redisClient}
	agg := registry.Default(log).BuildAggregator(providerNames, deps)

	if len(agg.ProviderNames()) == 0 {
		redisClient.Close()
		return nil, nil, nil, nil, fmt.Errorf("no providers available: check credentials in .env")
	}

	return cfg, log, redisClient, agg, nil
}
