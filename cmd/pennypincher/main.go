package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/grokalmighty/PennyPincher/internal/config"
	apphttp "github.com/grokalmighty/PennyPincher/internal/http"
	"github.com/grokalmighty/PennyPincher/internal/insights"
	applog "github.com/grokalmighty/PennyPincher/internal/log"
	"github.com/grokalmighty/PennyPincher/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	classifier := insights.NewClassifier(cfg.ModelCachePath, cfg.TrainingSamples, cfg.TrainingSeed)
	// Train (or load) the personality model before accepting traffic so the
	// first insights request doesn't pay for it.
	classifier.Warm()

	analyzer := insights.NewAnalyzer(classifier)
	st := store.NewMemory()

	srv := apphttp.NewServer(":"+cfg.Port, st, analyzer, cfg.DashboardInsightAccounts)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting PennyPincher server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
