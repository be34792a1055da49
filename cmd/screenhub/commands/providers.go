package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers and their criteria",
	Long: `Lists every provider that built successfully from the current
configuration, with the screening criteria each one understands.

Example:
  go run ./cmd/screenhub providers`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	_, _, redisClient, agg, err := setup()
	if err != nil {
		return err
	}
	defer redisClient.Close()

	schemas := agg.AvailableCriteria()

	for _, name := range agg.ProviderNames() {
		fmt.Println()
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Printf("  %s\n", name)
		fmt.Println("───────────────────────────────────────────────────────────")

		schema := schemas[name]
		keys := make([]string, 0, len(schema))
		for key := range schema {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			description := ""
			if spec, ok := schema[key].(map[string]interface{}); ok {
				description, _ = spec["description"].(string)
			}
			fmt.Printf("  %-20s %s\n", key, description)
		}
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("\n✅ %d providers configured\n", len(agg.ProviderNames()))

	return nil
}
