// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mealrec/internal/catalog"
	"github.com/tomtom215/mealrec/internal/config"
	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/logging"
)

// Inputs are the files a training run reads.
type Inputs struct {
	Catalog        *catalog.Catalog
	Interactions   []Interaction
	TextEmbeddings *embedding.Matrix
}

// LoadInputs reads the catalog, the interaction log and the text
// embeddings concurrently.
func LoadInputs(ctx context.Context, cfg *config.TrainerConfig, catalogPath string) (*Inputs, error) {
	var in Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat, err := catalog.LoadCSV(gctx, catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		in.Catalog = cat
		return nil
	})
	g.Go(func() error {
		its, err := LoadInteractions(gctx, cfg.InteractionsPath)
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}
		in.Interactions = its
		return nil
	})
	g.Go(func() error {
		m, err := embedding.LoadFile(cfg.TextEmbeddingsPath)
		if err != nil {
			return fmt.Errorf("load text embeddings: %w", err)
		}
		in.TextEmbeddings = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if in.TextEmbeddings.Rows() != in.Catalog.Len() {
		return nil, fmt.Errorf("text embeddings have %d rows but the catalog has %d items",
			in.TextEmbeddings.Rows(), in.Catalog.Len())
	}
	return &in, nil
}

// Result describes a finished training run.
type Result struct {
	Epochs       []EpochStats
	Users        int
	Items        int
	Interactions int
	Skipped      int
	Resumed      bool
	OutputPath   string
	Duration     time.Duration
}

// Run trains a model end to end and exports the item tower output, one row
// per catalog item in catalog order, to cfg.OutputPath.
func Run(ctx context.Context, cfg *config.TrainerConfig, catalogPath string) (*Result, error) {
	start := time.Now()

	in, err := LoadInputs(ctx, cfg, catalogPath)
	if err != nil {
		return nil, err
	}
	data, err := BuildDataset(in.Catalog, in.Interactions, cfg.EventWeights)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Int("users", len(data.Users)).
		Int("items", data.NumItems).
		Int("interactions", data.Len()).
		Int("skipped", data.Skipped()).
		Msg("Training dataset ready")

	var store Checkpointer
	if cfg.CheckpointDir != "" {
		cs, err := OpenCheckpointStore(cfg.CheckpointDir)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := cs.Close(); err != nil {
				logging.Warn().Err(err).Msg("Failed to close checkpoint store")
			}
		}()
		store = cs
	}

	t, err := New(data, in.TextEmbeddings, OptionsFrom(cfg), store)
	if err != nil {
		return nil, err
	}
	resumed, err := t.Resume(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	stats, err := t.Train(ctx)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	if err := embedding.SaveFile(cfg.OutputPath, t.Model().ItemVectors()); err != nil {
		return nil, fmt.Errorf("export item embeddings: %w", err)
	}

	res := &Result{
		Epochs:       stats,
		Users:        len(data.Users),
		Items:        data.NumItems,
		Interactions: data.Len(),
		Skipped:      data.Skipped(),
		Resumed:      resumed,
		OutputPath:   cfg.OutputPath,
		Duration:     time.Since(start),
	}
	logging.Info().
		Str("output", res.OutputPath).
		Int("epochs_run", len(stats)).
		Bool("resumed", resumed).
		Dur("duration", res.Duration).
		Msg("Item embeddings exported")
	return res, nil
}
