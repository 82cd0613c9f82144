package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/config"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/logger"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/router"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		slog.Error("Failed to setup dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	deps.Collector.StartBackground(ctx, cfg.Public.GCInterval)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Public.Port),
		Handler: router.New(deps),
	}

	go func() {
		slog.Info("Server started", "port", cfg.Public.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
