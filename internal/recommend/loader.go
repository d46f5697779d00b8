// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mealrec/internal/catalog"
	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/metrics"
)

// Source names the files that make up a snapshot.
type Source struct {
	CatalogPath    string
	EmbeddingsPath string
}

// Load reads the catalog and embeddings concurrently and builds an engine.
// Row-count or dimension mismatches surface as *ConfigurationError.
func Load(ctx context.Context, src Source, opts Options) (*Engine, error) {
	start := time.Now()

	var (
		cat    *catalog.Catalog
		matrix *embedding.Matrix
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cat, err = catalog.LoadCSV(gctx, src.CatalogPath)
		return err
	})
	g.Go(func() error {
		var err error
		matrix, err = embedding.LoadFile(src.EmbeddingsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	e, err := NewEngine(cat, matrix, opts)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordSnapshot(cat.Len(), matrix.Dim(), elapsed)
	logging.Info().
		Str("snapshot", e.Version()).
		Str("catalog", src.CatalogPath).
		Str("embeddings", src.EmbeddingsPath).
		Int("items", cat.Len()).
		Int("dim", matrix.Dim()).
		Dur("duration", elapsed).
		Msg("Snapshot loaded")
	return e, nil
}
