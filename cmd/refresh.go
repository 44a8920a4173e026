package cmd

import (
	"context"
	"log"
	"time"

	"countrypulse/core/config"
	"countrypulse/core/database"
	"countrypulse/core/logger"
	"countrypulse/core/storage"
	"countrypulse/feature/countries"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// refreshCmd runs one refresh cycle from the shell and exits. Useful for
// cron-style scheduling without keeping the HTTP server in the loop.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh cycle and exit",
	Long:  `Fetches both external sources, reconciles and persists the dataset, then regenerates the summary artifact.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		feat := countries.NewFeature(db, store, cfg.Storage.Bucket, cfg.Source, logg)
		svc := feat.Service()

		if err := svc.Migrate(); err != nil {
			logg.Fatal("Migration failed", zap.Error(err))
		}

		// Generous ceiling for the full cycle; the per-fetch timeouts are
		// tighter and drive the usual failure mode.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		res, err := svc.Refresh(ctx)
		if err != nil {
			logg.Fatal("Refresh failed", zap.Error(err))
		}

		logg.Info("Refresh completed",
			zap.Int64("total_countries", res.Total),
			zap.Time("last_refreshed_at", res.RefreshedAt),
		)
	},
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}
