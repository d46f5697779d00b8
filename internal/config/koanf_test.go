// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Data.CatalogPath != "items.csv" {
		t.Errorf("Data.CatalogPath = %q, want items.csv", cfg.Data.CatalogPath)
	}
	if cfg.Data.EmbeddingsPath != "item_embeddings.npy" {
		t.Errorf("Data.EmbeddingsPath = %q, want item_embeddings.npy", cfg.Data.EmbeddingsPath)
	}
	if cfg.Recommend.DefaultTopN != 5 {
		t.Errorf("Recommend.DefaultTopN = %d, want 5", cfg.Recommend.DefaultTopN)
	}
	if cfg.Search.CategoryLimit != 50 {
		t.Errorf("Search.CategoryLimit = %d, want 50", cfg.Search.CategoryLimit)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	tr := cfg.Trainer
	if tr.EmbeddingDim != 64 || tr.HiddenDim != 128 || tr.Negatives != 4 {
		t.Errorf("trainer shape = (%d, %d, %d), want (64, 128, 4)", tr.EmbeddingDim, tr.HiddenDim, tr.Negatives)
	}
	if tr.Epochs != 5 || tr.BatchSize != 256 || tr.LearningRate != 0.001 {
		t.Errorf("trainer schedule = (%d, %d, %g), want (5, 256, 0.001)", tr.Epochs, tr.BatchSize, tr.LearningRate)
	}
	if tr.EventWeights["order"] != 5.0 || tr.EventWeights["add_to_cart"] != 3.0 || tr.EventWeights["view"] != 1.0 {
		t.Errorf("trainer event weights = %v", tr.EventWeights)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"CATALOG_PATH", "data.catalog_path"},
		{"EMBEDDINGS_PATH", "data.embeddings_path"},
		{"RELOAD_INTERVAL", "data.reload_interval"},
		{"RECOMMEND_DEFAULT_TOP_N", "recommend.default_top_n"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FILE", "logging.file"},
		{"TRAINER_EPOCHS", "trainer.epochs"},
		{"TRAINER_LEARNING_RATE", "trainer.learning_rate"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery through CONFIG_PATH
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing CONFIG_PATH falls through", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(tmpDir, "nope.yaml"))
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("CONFIG_PATH exists", func(t *testing.T) {
		path := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EMBEDDINGS_PATH", "/data/final_backend_embeddings.npy")
	t.Setenv("RELOAD_INTERVAL", "2m")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://menu.example.com")
	t.Setenv("TRAINER_EPOCHS", "7")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Data.EmbeddingsPath != "/data/final_backend_embeddings.npy" {
		t.Errorf("Data.EmbeddingsPath = %q", cfg.Data.EmbeddingsPath)
	}
	if cfg.Data.ReloadInterval != 2*time.Minute {
		t.Errorf("Data.ReloadInterval = %v, want 2m", cfg.Data.ReloadInterval)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://menu.example.com" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Trainer.Epochs != 7 {
		t.Errorf("Trainer.Epochs = %d, want 7", cfg.Trainer.Epochs)
	}

	// Defaults survive for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.DefaultTopN != 5 {
		t.Errorf("Recommend.DefaultTopN = %d, want 5 (default)", cfg.Recommend.DefaultTopN)
	}
}

// TestLoadWithKoanfConfigFile tests layering a YAML file over defaults, with env on top
func TestLoadWithKoanfConfigFile(t *testing.T) {
	configContent := `
server:
  port: 8888
  host: "127.0.0.1"

data:
  catalog_path: "/srv/menu/items.csv"

recommend:
  default_top_n: 8

trainer:
  event_weights:
    order: 10

logging:
  level: "warn"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env beats file)", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Data.CatalogPath != "/srv/menu/items.csv" {
		t.Errorf("Data.CatalogPath = %q", cfg.Data.CatalogPath)
	}
	if cfg.Recommend.DefaultTopN != 8 {
		t.Errorf("Recommend.DefaultTopN = %d, want 8", cfg.Recommend.DefaultTopN)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Trainer.EventWeights["order"] != 10 {
		t.Errorf("EventWeights[order] = %g, want 10", cfg.Trainer.EventWeights["order"])
	}
	if cfg.Trainer.EventWeights["add_to_cart"] != 3 {
		t.Errorf("EventWeights[add_to_cart] = %g, want 3 (default kept)", cfg.Trainer.EventWeights["add_to_cart"])
	}
	if got := len(cfg.Trainer.EventWeights); got != 5 {
		t.Errorf("len(EventWeights) = %d, want 5", got)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("RECOMMEND_DEFAULT_TOP_N", "0")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for default_top_n=0")
	}
}
