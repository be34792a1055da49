package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/screenhub/internal/screener"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// All commands share the same output format
// ═══════════════════════════════════════════════════════════

// printRecordTable prints screening results as a fixed-width table
func printRecordTable(stocks []screener.Record) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("  %-12s %-24s %12s %8s %12s  %s\n",
		"TICKER", "NAME", "PRICE", "P/E", "MKT CAP", "SOURCES")
	fmt.Println("───────────────────────────────────────────────────────────────────────────")

	for _, stock := range stocks {
		ticker, _ := stock.Ticker()
		name, _ := stock[screener.FieldName].(string)
		if len(name) > 24 {
			name = name[:21] + "..."
		}

		fmt.Printf("  %-12s %-24s %12s %8s %12s  %s\n",
			ticker,
			name,
			formatNumber(stock, screener.FieldPrice, "%.2f"),
			formatNumber(stock, screener.FieldPERatio, "%.1f"),
			formatMarketCap(stock),
			strings.Join(stock.Providers(), ","))
	}

	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
}

// formatNumber formats a numeric field, or a dash when missing
func formatNumber(r screener.Record, key string, format string) string {
	v, ok := r.Number(key)
	if !ok {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

// formatMarketCap renders market cap with a magnitude suffix
func formatMarketCap(r screener.Record) string {
	v, ok := r.Number(screener.FieldMarketCap)
	if !ok {
		return "-"
	}

	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}
