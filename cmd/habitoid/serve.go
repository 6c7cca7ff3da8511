package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"habitoid/internal/auth"
	"habitoid/internal/config"
	"habitoid/internal/db"
	api "habitoid/internal/http"
	"habitoid/internal/insight"
	"habitoid/internal/mailer"
	"habitoid/internal/repo"
	"habitoid/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	cfg := config.Load()
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer pool.Close()

	authManager := auth.NewManager(cfg.JWTSecret)
	repository := repo.New(pool)

	var m mailer.Mailer = mailer.LogOnly{}
	if cfg.SMTPAddr != "" {
		m = &mailer.SMTP{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
	}
	svc := service.New(repository, authManager, insight.New(cfg.OpenAIKey), m, cfg.AppBaseURL)

	handler := &api.API{
		Repo:    repository,
		Service: svc,
		Auth:    authManager,
		Origins: splitOrigins(cfg.CORSOrigin),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
