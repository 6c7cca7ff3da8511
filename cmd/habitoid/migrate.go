package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"habitoid/internal/config"
	"habitoid/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.Load()
		ctx := context.Background()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect db: %v", err)
		}
		defer pool.Close()
		if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		log.Println("migrations up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
