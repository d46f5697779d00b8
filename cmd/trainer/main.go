// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

// Package main trains the two-tower model and exports the item embedding
// matrix the server loads from EMBEDDINGS_PATH.
//
// Inputs come from the shared configuration:
//   - CATALOG_PATH: the items CSV the server serves
//   - TRAINER_INTERACTIONS_PATH: user_id,item_id,interaction_type,timestamp CSV
//   - TRAINER_TEXT_EMBEDDINGS_PATH: per-item text embeddings (.npy), catalog order
//   - TRAINER_OUTPUT_PATH: where the item embeddings are written
//   - TRAINER_CHECKPOINT_DIR: BadgerDB checkpoints; an interrupted run resumes
//
// A running server with RELOAD_ENABLED=true picks the new matrix up on its
// next poll when TRAINER_OUTPUT_PATH equals EMBEDDINGS_PATH.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/tomtom215/mealrec/internal/config"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/trainer"
)

func main() {
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

	tc := &cfg.Trainer
	if tc.InteractionsPath == "" || tc.TextEmbeddingsPath == "" || tc.OutputPath == "" {
		logging.Fatal().Msg("TRAINER_INTERACTIONS_PATH, TRAINER_TEXT_EMBEDDINGS_PATH and TRAINER_OUTPUT_PATH are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if tc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tc.Timeout)
		defer cancel()
	}

	logging.Info().
		Str("catalog", cfg.Data.CatalogPath).
		Str("interactions", tc.InteractionsPath).
		Str("output", tc.OutputPath).
		Int("epochs", tc.Epochs).
		Int("dim", tc.EmbeddingDim).
		Msg("Starting training run")

	res, err := trainer.Run(ctx, tc, cfg.Data.CatalogPath)
	if err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Training failed")
	}

	var loss float64
	if n := len(res.Epochs); n > 0 {
		loss = res.Epochs[n-1].Loss
	}
	logging.Info().
		Int("users", res.Users).
		Int("items", res.Items).
		Int("interactions", res.Interactions).
		Int("skipped", res.Skipped).
		Float64("final_loss", loss).
		Dur("duration", res.Duration).
		Msg("Training finished")
}
