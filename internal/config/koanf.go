// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mealrec/config.yaml",
	"/etc/mealrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			CatalogPath:    "items.csv",
			EmbeddingsPath: "item_embeddings.npy",
			ReloadEnabled:  true,
			ReloadInterval: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultTopN:  5,
			MaxTopN:      50,
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
			CacheSize:    10000,
		},
		Search: SearchConfig{
			CategoryLimit: 50,
			DefaultLimit:  50,
			MaxLimit:      500,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Caller:     false,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Trainer: TrainerConfig{
			InteractionsPath:   "interactions.csv",
			TextEmbeddingsPath: "new_item_embeddings.npy",
			OutputPath:         "item_embeddings.npy",
			CheckpointDir:      "checkpoints",
			EmbeddingDim:       64,
			HiddenDim:          128,
			Negatives:          4,
			Epochs:             5,
			BatchSize:          256,
			LearningRate:       0.001,
			Seed:               42,
			EventWeights: map[string]float64{
				"view":                 1.0,
				"click":                1.0,
				"click_recommendation": 1.0,
				"add_to_cart":          3.0,
				"order":                5.0,
			},
			Timeout: 2 * time.Hour,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	mergeEventWeights(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// mergeEventWeights fills in default weights for interaction types the
// config file left out. koanf replaces a typed default map wholesale.
func mergeEventWeights(cfg *Config) {
	if cfg.Trainer.EventWeights == nil {
		cfg.Trainer.EventWeights = make(map[string]float64)
	}
	for name, w := range defaultConfig().Trainer.EventWeights {
		if _, ok := cfg.Trainer.EventWeights[name]; !ok {
			cfg.Trainer.EventWeights[name] = w
		}
	}
}

// findConfigFile returns the first existing config file, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML already yields slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Data files
	"catalog_path":    "data.catalog_path",
	"embeddings_path": "data.embeddings_path",
	"reload_enabled":  "data.reload_enabled",
	"reload_interval": "data.reload_interval",

	// Recommendation
	"recommend_default_top_n": "recommend.default_top_n",
	"recommend_max_top_n":     "recommend.max_top_n",
	"recommend_cache_enabled": "recommend.cache_enabled",
	"recommend_cache_ttl":     "recommend.cache_ttl",
	"recommend_cache_size":    "recommend.cache_size",

	// Search
	"search_category_limit": "search.category_limit",
	"search_default_limit":  "search.default_limit",
	"search_max_limit":      "search.max_limit",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":       "logging.level",
	"log_format":      "logging.format",
	"log_caller":      "logging.caller",
	"log_file":        "logging.file",
	"log_max_size_mb": "logging.max_size_mb",
	"log_max_backups": "logging.max_backups",
	"log_max_age":     "logging.max_age_days",

	// Trainer
	"trainer_interactions_path":    "trainer.interactions_path",
	"trainer_text_embeddings_path": "trainer.text_embeddings_path",
	"trainer_output_path":          "trainer.output_path",
	"trainer_checkpoint_dir":       "trainer.checkpoint_dir",
	"trainer_embedding_dim":        "trainer.embedding_dim",
	"trainer_hidden_dim":           "trainer.hidden_dim",
	"trainer_negatives":            "trainer.negatives",
	"trainer_epochs":               "trainer.epochs",
	"trainer_batch_size":           "trainer.batch_size",
	"trainer_learning_rate":        "trainer.learning_rate",
	"trainer_seed":                 "trainer.seed",
	"trainer_timeout":              "trainer.timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - EMBEDDINGS_PATH -> data.embeddings_path
//   - TRAINER_EPOCHS -> trainer.epochs
//
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
