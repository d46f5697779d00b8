// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/mealrec/internal/cache"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/metrics"
)

// ServiceConfig controls the response cache.
type ServiceConfig struct {
	CacheEnabled bool
	CacheSize    int
	CacheTTL     time.Duration
}

type cacheKey struct {
	snapshot string
	itemID   int64
	topN     int
	debug    bool
}

// Service fronts the live engine with a response cache. Cache keys carry
// the snapshot version, so a reload never serves results from the old data.
type Service struct {
	holder *Holder
	cache  *cache.LRU[cacheKey, *Response]
}

// NewService wraps holder.
func NewService(holder *Holder, cfg ServiceConfig) *Service {
	s := &Service{holder: holder}
	if cfg.CacheEnabled {
		s.cache = cache.NewLRU[cacheKey, *Response](cfg.CacheSize, cfg.CacheTTL)
	}
	return s
}

// Engine returns the live engine.
func (s *Service) Engine() *Engine {
	return s.holder.Load()
}

// Recommend serves req from the cache or the live engine. The returned
// response is shared with the cache and must not be modified. cached
// reports whether it came from the cache.
func (s *Service) Recommend(ctx context.Context, req Request) (resp *Response, cached bool, err error) {
	e := s.holder.Load()

	topN := req.TopN
	if topN <= 0 {
		topN = e.DefaultTopN()
	}
	key := cacheKey{snapshot: e.Version(), itemID: req.ItemID, topN: min(topN, e.MaxTopN()), debug: req.Debug}

	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			metrics.RecordCacheLookup(true)
			return hit, true, nil
		}
		metrics.RecordCacheLookup(false)
	}

	resp, err = e.Recommend(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cache.Add(key, resp)
	}
	return resp, false, nil
}

// Publish makes e the live engine and drops cached responses.
func (s *Service) Publish(e *Engine) {
	old := s.holder.Swap(e)
	if s.cache != nil {
		s.cache.Clear()
	}
	metrics.SnapshotItems.Set(float64(e.Catalog().Len()))
	metrics.SnapshotDimension.Set(float64(e.Dim()))

	ev := logging.Info().
		Str("snapshot", e.Version()).
		Int("items", e.Catalog().Len()).
		Int("dim", e.Dim())
	if old != nil {
		ev = ev.Str("previous", old.Version())
	}
	ev.Msg("Snapshot published")
}

// CacheStats returns response cache counters, or zero when caching is off.
func (s *Service) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}
