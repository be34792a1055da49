package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:   "details TICKER",
	Short: "Show merged details for a single stock",
	Long: `Fetches details for one ticker from every configured provider
and merges them into a single record. The first provider with data
forms the base; the rest fill gaps and are nested under their own key.

Example:
  go run ./cmd/screenhub details AAPL
  go run ./cmd/screenhub details RELIANCE --providers screenerin`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

var detailsTimeout time.Duration

func init() {
	rootCmd.AddCommand(detailsCmd)

	detailsCmd.Flags().DurationVar(&detailsTimeout, "timeout", 30*time.Second, "overall fetch timeout")
}

func runDetails(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	_, _, redisClient, agg, err := setup()
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), detailsTimeout)
	defer cancel()

	details := agg.StockDetails(ctx, ticker)
	if len(details) == 0 {
		PrintWarning(fmt.Sprintf("No provider returned details for %s", ticker))
		return nil
	}

	out, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
