// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/mealrec/internal/api"
	"github.com/tomtom215/mealrec/internal/config"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/recommend"
	"github.com/tomtom215/mealrec/internal/supervisor"
	"github.com/tomtom215/mealrec/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		File: logging.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	})

	logging.Info().
		Str("catalog", cfg.Data.CatalogPath).
		Str("embeddings", cfg.Data.EmbeddingsPath).
		Bool("reload", cfg.Data.ReloadEnabled).
		Msg("Starting Mealrec with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := recommend.Source{
		CatalogPath:    cfg.Data.CatalogPath,
		EmbeddingsPath: cfg.Data.EmbeddingsPath,
	}
	opts := recommend.Options{
		DefaultTopN: cfg.Recommend.DefaultTopN,
		MaxTopN:     cfg.Recommend.MaxTopN,
	}
	load := func(ctx context.Context) (*recommend.Engine, error) {
		return recommend.Load(ctx, src, opts)
	}

	engine, err := load(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load recommendation snapshot")
	}

	svc := recommend.NewService(recommend.NewHolder(engine), recommend.ServiceConfig{
		CacheEnabled: cfg.Recommend.CacheEnabled,
		CacheSize:    cfg.Recommend.CacheSize,
		CacheTTL:     cfg.Recommend.CacheTTL,
	})

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === DATA LAYER ===
	if cfg.Data.ReloadEnabled {
		reload := services.NewReloadService(load, svc, services.ReloadServiceConfig{
			Paths:    []string{cfg.Data.CatalogPath, cfg.Data.EmbeddingsPath},
			Interval: cfg.Data.ReloadInterval,
		})
		if err := reload.Prime(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stat snapshot files, first poll will reload")
		}
		tree.AddDataService(reload)
		logging.Info().Dur("interval", cfg.Data.ReloadInterval).Msg("Snapshot reload service added")
	}

	// === API LAYER ===
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(svc, cfg).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		stop()
	}

	// Drain until the supervisor has stopped every service
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort after shutdown
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Mealrec stopped")
}
