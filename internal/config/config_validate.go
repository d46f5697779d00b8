// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateTrainer()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Data.EmbeddingsPath == "" {
		return fmt.Errorf("EMBEDDINGS_PATH is required")
	}
	if c.Data.ReloadEnabled && c.Data.ReloadInterval < time.Second {
		return fmt.Errorf("RELOAD_INTERVAL must be at least 1s when reload is enabled, got %v", c.Data.ReloadInterval)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultTopN < 1 {
		return fmt.Errorf("recommend.default_top_n must be >= 1, got %d", r.DefaultTopN)
	}
	if r.MaxTopN < r.DefaultTopN {
		return fmt.Errorf("recommend.max_top_n (%d) must be >= default_top_n (%d)", r.MaxTopN, r.DefaultTopN)
	}
	if r.CacheEnabled {
		if r.CacheTTL <= 0 {
			return fmt.Errorf("recommend.cache_ttl must be positive when caching is enabled")
		}
		if r.CacheSize < 1 {
			return fmt.Errorf("recommend.cache_size must be >= 1 when caching is enabled")
		}
	}
	return nil
}

func (c *Config) validateSearch() error {
	s := c.Search
	if s.CategoryLimit < 1 {
		return fmt.Errorf("search.category_limit must be >= 1, got %d", s.CategoryLimit)
	}
	if s.DefaultLimit < 1 || s.MaxLimit < s.DefaultLimit {
		return fmt.Errorf("search limits invalid: default=%d max=%d", s.DefaultLimit, s.MaxLimit)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateTrainer() error {
	t := c.Trainer
	switch {
	case t.EmbeddingDim < 1:
		return fmt.Errorf("trainer.embedding_dim must be >= 1, got %d", t.EmbeddingDim)
	case t.HiddenDim < 1:
		return fmt.Errorf("trainer.hidden_dim must be >= 1, got %d", t.HiddenDim)
	case t.Negatives < 1:
		return fmt.Errorf("trainer.negatives must be >= 1, got %d", t.Negatives)
	case t.Epochs < 1:
		return fmt.Errorf("trainer.epochs must be >= 1, got %d", t.Epochs)
	case t.BatchSize < 1:
		return fmt.Errorf("trainer.batch_size must be >= 1, got %d", t.BatchSize)
	case t.LearningRate <= 0:
		return fmt.Errorf("trainer.learning_rate must be positive, got %g", t.LearningRate)
	}
	for event, w := range t.EventWeights {
		if w < 0 {
			return fmt.Errorf("trainer.event_weights[%s] must be >= 0, got %g", event, w)
		}
	}
	return nil
}
