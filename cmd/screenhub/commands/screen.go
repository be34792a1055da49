package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/screenhub/internal/screener"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen stocks across providers",
	Long: `Runs a screening query against all configured providers in
parallel, merges the per-ticker results and prints them.

Criteria are provider-neutral key=value pairs; each provider applies
the ones it understands.

Example:
  go run ./cmd/screenhub screen --criteria marketCapMin=500000000000 --criteria sector=Technology
  go run ./cmd/screenhub screen --risk low --top 10 --sort-by marketCap`,
	RunE: runScreen,
}

var (
	screenCriteria []string
	screenRisk     string
	screenTop      int
	screenSortBy   string
	screenAsc      bool
	screenTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringArrayVar(&screenCriteria, "criteria", nil, "criteria as key=value (repeatable)")
	screenCmd.Flags().StringVar(&screenRisk, "risk", "", "risk level filter (low|medium|high)")
	screenCmd.Flags().IntVar(&screenTop, "top", 0, "keep only the top K results")
	screenCmd.Flags().StringVar(&screenSortBy, "sort-by", "", "field to rank by (required with --top)")
	screenCmd.Flags().BoolVar(&screenAsc, "asc", false, "rank in ascending order (default: descending)")
	screenCmd.Flags().DurationVar(&screenTimeout, "timeout", 2*time.Minute, "overall screening timeout")
}

func runScreen(cmd *cobra.Command, args []string) error {
	if screenTop > 0 && screenSortBy == "" {
		return fmt.Errorf("--sort-by is required with --top")
	}

	criteria, err := parseCriteria(screenCriteria)
	if err != nil {
		return err
	}

	_, log, redisClient, agg, err := setup()
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), screenTimeout)
	defer cancel()

	start := time.Now()
	results := agg.ScreenParallel(ctx, criteria)
	stocks := agg.CombineResults(results)

	if screenRisk != "" {
		stocks = agg.FilterByRisk(stocks, screenRisk)
	}
	if screenTop > 0 {
		stocks = agg.TopK(stocks, screenTop, screenSortBy, !screenAsc)
	}

	log.WithFields(map[string]interface{}{
		"providers": results.Providers(),
		"count":     len(stocks),
		"duration":  time.Since(start),
	}).Info("Screen completed")

	printRecordTable(stocks)
	fmt.Printf("\n✅ %d stocks from %s in %.2fs\n",
		len(stocks), strings.Join(results.Providers(), ", "), time.Since(start).Seconds())

	return nil
}

// parseCriteria turns key=value flags into shared criteria. Numeric
// values become float64 so providers can range-filter on them.
func parseCriteria(pairs []string) (screener.Criteria, error) {
	criteria := screener.Criteria{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid criteria %q: expected key=value", pair)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			criteria[key] = n
		} else {
			criteria[key] = value
		}
	}

	return criteria, nil
}
