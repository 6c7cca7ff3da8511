package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"habitoid/internal/config"
	"habitoid/internal/db"
	"habitoid/internal/habit"
	"habitoid/internal/repo"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the built-in badge catalog",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.Load()
		ctx := context.Background()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect db: %v", err)
		}
		defer pool.Close()
		repository := repo.New(pool)
		for _, b := range habit.BadgeCatalog {
			if err := repository.UpsertBadge(ctx, b); err != nil {
				log.Fatalf("seed badge %s: %v", b.ID, err)
			}
		}
		log.Printf("seeded %d badges", len(habit.BadgeCatalog))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
