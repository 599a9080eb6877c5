package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darrellg/lectern/internal/api"
	"github.com/darrellg/lectern/internal/config"
	"github.com/darrellg/lectern/internal/llm"
	"github.com/darrellg/lectern/internal/pipeline"
	"github.com/darrellg/lectern/internal/youtube"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	stats := llm.NewStats(time.Hour)
	registry := llm.NewRegistry(cfg.GeminiAPIKey, cfg.DeepSeekAPIKey, stats)
	transcripts := youtube.NewClient(cfg.TranscriptLanguages)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, registry, transcripts, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, registry, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting lectern", "port", cfg.Port, "default_model", llm.DefaultModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
