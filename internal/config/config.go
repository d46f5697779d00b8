// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

// Package config loads mealrec configuration for both the server and the
// offline trainer.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("failed to load configuration")
//	}
//	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Search    SearchConfig    `koanf:"search"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Trainer   TrainerConfig   `koanf:"trainer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig locates the catalog and embedding files served by the API.
//
// Environment Variables:
//   - CATALOG_PATH: items CSV (default: items.csv)
//   - EMBEDDINGS_PATH: item embedding matrix in .npy format (default: item_embeddings.npy)
//   - RELOAD_ENABLED: watch both files and swap in new snapshots (default: true)
//   - RELOAD_INTERVAL: polling interval for file changes (default: 30s)
type DataConfig struct {
	CatalogPath    string        `koanf:"catalog_path"`
	EmbeddingsPath string        `koanf:"embeddings_path"`
	ReloadEnabled  bool          `koanf:"reload_enabled"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// RecommendConfig holds recommendation request limits and response caching.
type RecommendConfig struct {
	DefaultTopN  int           `koanf:"default_top_n"`
	MaxTopN      int           `koanf:"max_top_n"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	CacheSize    int           `koanf:"cache_size"`
}

// SearchConfig holds catalog query limits.
type SearchConfig struct {
	// CategoryLimit caps /category/{name} results.
	CategoryLimit int `koanf:"category_limit"`
	// DefaultLimit and MaxLimit bound /search and /locality results.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`

	// File enables a size-rotated log file instead of stderr.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// TrainerConfig drives the offline two-tower trainer (cmd/trainer).
//
// The trainer reads the same catalog as the server (Data.CatalogPath) so
// that exported rows stay aligned with the served item table.
type TrainerConfig struct {
	InteractionsPath   string `koanf:"interactions_path"`
	TextEmbeddingsPath string `koanf:"text_embeddings_path"`
	OutputPath         string `koanf:"output_path"`
	CheckpointDir      string `koanf:"checkpoint_dir"`

	EmbeddingDim int     `koanf:"embedding_dim"`
	HiddenDim    int     `koanf:"hidden_dim"`
	Negatives    int     `koanf:"negatives"`
	Epochs       int     `koanf:"epochs"`
	BatchSize    int     `koanf:"batch_size"`
	LearningRate float64 `koanf:"learning_rate"`
	Seed         int64   `koanf:"seed"`

	// EventWeights maps interaction_type to its BPR sample weight.
	// Unknown types weigh 1.0.
	EventWeights map[string]float64 `koanf:"event_weights"`

	Timeout time.Duration `koanf:"timeout"`
}

// Load reads configuration using the layered Koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
