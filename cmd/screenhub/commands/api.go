package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/screenhub/internal/api"
	"github.com/wonny/screenhub/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health               - Health check
  POST /api/screen           - Run a parallel screen
  GET  /api/providers        - List providers and criteria
  GET  /api/stocks/{ticker}  - Merged stock details

Example:
  go run ./cmd/screenhub api
  go run ./cmd/screenhub api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ScreenHub API Server ===")

	// 1. Load config and build the aggregator
	cfg, log, redisClient, agg, err := setup()
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":      cfg.Port,
		"env":       cfg.Env,
		"providers": agg.ProviderNames(),
	}).Info("Initializing API server")

	// 2. Create handler and router
	screenHandler := handlers.NewScreenHandler(agg, log)
	router := api.NewRouter(screenHandler, log)

	// 3. Create server
	server := api.New(cfg, log, router)

	// 4. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/screen")
	fmt.Println("  GET  /api/providers")
	fmt.Println("  GET  /api/stocks/{ticker}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
