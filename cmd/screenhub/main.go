package main

import (
	"os"

	"github.com/wonny/screenhub/cmd/screenhub/commands"
)

// main is the entry point for the ScreenHub CLI
// ⭐ Unified CLI entry point: go run ./cmd/screenhub [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
