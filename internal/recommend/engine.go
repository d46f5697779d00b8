// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/tomtom215/mealrec/internal/catalog"
	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/metrics"
)

// Options tune an Engine.
type Options struct {
	// DefaultTopN applies when a request leaves TopN unset. Default: 5.
	DefaultTopN int
	// MaxTopN caps TopN. Default: 50.
	MaxTopN int
	// Rules replaces the boost cascade. Default: DefaultRules().
	Rules []Rule
	// Version labels the snapshot. Default: generated.
	Version string
}

func (o *Options) applyDefaults() {
	if o.DefaultTopN <= 0 {
		o.DefaultTopN = 5
	}
	if o.MaxTopN < o.DefaultTopN {
		o.MaxTopN = max(50, o.DefaultTopN)
	}
	if o.Rules == nil {
		o.Rules = DefaultRules()
	}
	if o.Version == "" {
		o.Version = NewSnapshotVersion()
	}
}

// Engine serves recommendations from one immutable catalog and embedding
// snapshot. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog  *catalog.Catalog
	matrix   *embedding.Matrix
	norms    []float64
	profiles []Profile
	opts     Options
	loadedAt time.Time
}

// NewEngine checks that cat and m are row-aligned and precomputes row norms
// and rule profiles. A mismatch returns *ConfigurationError.
func NewEngine(cat *catalog.Catalog, m *embedding.Matrix, opts Options) (*Engine, error) {
	switch {
	case cat.Len() == 0:
		return nil, &ConfigurationError{Reason: "catalog is empty", EmbeddingRows: m.Rows(), Dim: m.Dim()}
	case cat.Len() != m.Rows():
		return nil, &ConfigurationError{
			Reason:        "catalog and embedding row counts differ",
			CatalogRows:   cat.Len(),
			EmbeddingRows: m.Rows(),
			Dim:           m.Dim(),
		}
	case m.Dim() == 0:
		return nil, &ConfigurationError{Reason: "embedding dimension is zero", CatalogRows: cat.Len(), EmbeddingRows: m.Rows()}
	}
	opts.applyDefaults()

	profiles := make([]Profile, cat.Len())
	for row := range profiles {
		profiles[row] = NewProfile(cat.At(row))
	}

	return &Engine{
		catalog:  cat,
		matrix:   m,
		norms:    rowNorms(m),
		profiles: profiles,
		opts:     opts,
		loadedAt: time.Now(),
	}, nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Dim returns the embedding dimension.
func (e *Engine) Dim() int { return e.matrix.Dim() }

// Version returns the snapshot label.
func (e *Engine) Version() string { return e.opts.Version }

// LoadedAt returns when the engine was built.
func (e *Engine) LoadedAt() time.Time { return e.loadedAt }

// DefaultTopN returns the TopN used when a request leaves it unset.
func (e *Engine) DefaultTopN() int { return e.opts.DefaultTopN }

// MaxTopN returns the largest TopN the engine will honour.
func (e *Engine) MaxTopN() int { return e.opts.MaxTopN }

// Similarities returns the raw cosine similarity of itemID against every
// catalog row, indexed by row.
func (e *Engine) Similarities(itemID int64) ([]float64, error) {
	row, ok := e.catalog.Row(itemID)
	if !ok {
		return nil, ErrNotFound
	}
	return similarities(e.matrix, e.norms, row), nil
}

// Score returns every catalog row with its raw and boosted similarity to
// itemID, in catalog order.
func (e *Engine) Score(itemID int64) ([]Candidate, error) {
	row, ok := e.catalog.Row(itemID)
	if !ok {
		return nil, ErrNotFound
	}

	raw := similarities(e.matrix, e.norms, row)
	adjusted := slices.Clone(raw)
	target := NewTarget(e.profiles[row])
	ApplyRules(e.opts.Rules, &target, e.profiles, adjusted)

	candidates := make([]Candidate, len(raw))
	for i := range candidates {
		candidates[i] = Candidate{Row: i, Raw: raw[i], Adjusted: adjusted[i]}
	}
	return candidates, nil
}

// Recommend returns up to TopN items that complete a meal around ItemID,
// best first. The anchor item and any item whose normalized name was
// already emitted (including the anchor's own) are skipped. Fewer items are
// returned when the catalog runs out; ErrNotFound is returned for an
// unknown ItemID.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topN := req.TopN
	if topN <= 0 {
		topN = e.opts.DefaultTopN
	}
	topN = min(topN, e.opts.MaxTopN)

	candidates, err := e.Score(req.ItemID)
	if err != nil {
		metrics.RecordRecommendation("not_found", 0, time.Since(start))
		return nil, err
	}
	targetRow, _ := e.catalog.Row(req.ItemID)
	target := NewTarget(e.profiles[targetRow])

	// Stable: equal scores keep catalog order.
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Adjusted, a.Adjusted)
	})

	seen := map[string]struct{}{target.NormName: {}}
	items := make([]Recommendation, 0, topN)
	for i := range candidates {
		if len(items) == topN {
			break
		}
		c := &candidates[i]
		if c.Row == targetRow {
			continue
		}
		p := &e.profiles[c.Row]
		if _, dup := seen[p.NormName]; dup {
			continue
		}
		seen[p.NormName] = struct{}{}
		items = append(items, e.recommendation(req.Debug, &target, p, c))
	}

	resp := &Response{
		ItemID:     req.ItemID,
		Items:      items,
		Candidates: len(candidates),
		Snapshot:   e.opts.Version,
		Latency:    time.Since(start),
	}
	metrics.RecordRecommendation("ok", len(items), resp.Latency)
	logging.Ctx(ctx).Debug().
		Int64("item_id", req.ItemID).
		Str("target", target.Item.Name).
		Bool("fast_food", target.FastFood).
		Bool("wet", target.Wet).
		Int("returned", len(items)).
		Dur("latency", resp.Latency).
		Msg("recommendation complete")

	return resp, nil
}

func (e *Engine) recommendation(debug bool, t *Target, p *Profile, c *Candidate) Recommendation {
	it := p.Item
	rec := Recommendation{
		ItemID:         it.ID,
		Name:           it.Name,
		Price:          it.Price,
		Category:       it.Category,
		IsVeg:          it.IsVeg,
		RestaurantName: it.RestaurantName,
	}
	if debug {
		score, raw := c.Adjusted, c.Raw
		rec.Score = &score
		rec.RawScore = &raw
		rec.Boosts = FiredRules(e.opts.Rules, t, p)
	}
	return rec
}
