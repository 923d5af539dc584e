// Package cli is the command-line entry point: the HTTP server and one-shot
// reports against the same warehouse.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"procurement/cache"
	"procurement/config"
	"procurement/database"
	"procurement/gemini"
	"procurement/procurement"
)

var rootCmd = &cobra.Command{
	Use:   "procurement",
	Short: "Procurement planning dashboard",
	Long: `Serves the procurement dashboard API: weekly sales reports, purchase
recommendations from the average of prior weeks' sales minus stock on hand,
and a data assistant that answers questions about the table on screen.

Reports can also be produced directly from the command line.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			config.GetLogger().Info("Error loading .env file, using environment variables")
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// backend is what every command needs to build tables.
type backend struct {
	cfg       config.Config
	warehouse database.Warehouse
	cache     *cache.QueryCache
	service   *procurement.Service
	generator gemini.Generator
	closers   []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// openBackend connects the warehouse and the model client for cfg. A missing
// model client is not fatal; chat answers then carry the error text.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	config.SetLogLevel(cfg.LogLevel)

	w, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to warehouse: %w", err)
	}
	b := &backend{cfg: cfg, warehouse: w, cache: cache.New(), closers: []func() error{w.Close}}
	b.service = procurement.NewService(w, b.cache, cfg.LookbackWeeks)

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		config.GetLogger().WithError(err).Warn("[GEMINI] client unavailable, chat answers will report an error")
		b.generator = gemini.Unavailable(err)
	} else {
		b.closers = append(b.closers, client.Close)
		b.generator = client
	}
	b.generator = gemini.Cached(b.generator, b.cache)
	return b, nil
}
