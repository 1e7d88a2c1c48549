// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	// Server defaults
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}

	// Store defaults
	if cfg.Store.Path != "/data/kidsadvisor" {
		t.Errorf("Store.Path = %q, want /data/kidsadvisor", cfg.Store.Path)
	}
	if cfg.Store.GCInterval != 10*time.Minute {
		t.Errorf("Store.GCInterval = %v, want 10m", cfg.Store.GCInterval)
	}
	if cfg.Store.GCDiscardRatio != 0.5 {
		t.Errorf("Store.GCDiscardRatio = %v, want 0.5", cfg.Store.GCDiscardRatio)
	}

	// Security defaults (JWT secret empty - required)
	if cfg.Security.JWTSecret != "" {
		t.Errorf("Security.JWTSecret should be empty by default, got %q", cfg.Security.JWTSecret)
	}
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("Security.SessionTimeout = %v, want 24h", cfg.Security.SessionTimeout)
	}
	if cfg.Security.BcryptCost != 12 {
		t.Errorf("Security.BcryptCost = %d, want 12", cfg.Security.BcryptCost)
	}
	if cfg.Security.RateLimitReqs != 100 {
		t.Errorf("Security.RateLimitReqs = %d, want 100", cfg.Security.RateLimitReqs)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	// API defaults
	if cfg.API.DefaultLimit != 20 {
		t.Errorf("API.DefaultLimit = %d, want 20", cfg.API.DefaultLimit)
	}
	if cfg.API.MaxLimit != 100 {
		t.Errorf("API.MaxLimit = %d, want 100", cfg.API.MaxLimit)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}

	// Recommendation defaults
	if cfg.Recommend.ContentWeight != 0.7 {
		t.Errorf("Recommend.ContentWeight = %v, want 0.7", cfg.Recommend.ContentWeight)
	}
	if cfg.Recommend.CollaborativeWeight != 0.3 {
		t.Errorf("Recommend.CollaborativeWeight = %v, want 0.3", cfg.Recommend.CollaborativeWeight)
	}
	if cfg.Recommend.DefaultLimit != 10 {
		t.Errorf("Recommend.DefaultLimit = %d, want 10", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.Neighbors != 5 {
		t.Errorf("Recommend.Neighbors = %d, want 5", cfg.Recommend.Neighbors)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Server
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"HTTP_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"ENVIRONMENT", "server.environment"},

		// Store
		{"STORE_PATH", "store.path"},
		{"STORE_IN_MEMORY", "store.in_memory"},
		{"STORE_GC_INTERVAL", "store.gc_interval"},

		// Security
		{"JWT_SECRET", "security.jwt_secret"},
		{"SESSION_TIMEOUT", "security.session_timeout"},
		{"BCRYPT_COST", "security.bcrypt_cost"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"CORS_ORIGINS", "security.cors_origins"},

		// API
		{"API_DEFAULT_LIMIT", "api.default_limit"},
		{"API_MAX_LIMIT", "api.max_limit"},

		// Logging
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FORMAT", "logging.format"},

		// Recommendation engine
		{"RECOMMEND_CONTENT_WEIGHT", "recommend.content_weight"},
		{"RECOMMEND_NEIGHBORS", "recommend.neighbors"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := envTransformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	}()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Run("no config file exists", func(t *testing.T) {
		os.Unsetenv(ConfigPathEnvVar)
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		os.Unsetenv(ConfigPathEnvVar)
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom_config.yaml")
		if err := os.WriteFile(customPath, []byte("server:\n  port: 9000\n"), 0644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		os.Setenv(ConfigPathEnvVar, customPath)
		defer os.Unsetenv(ConfigPathEnvVar)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		os.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		defer os.Unsetenv(ConfigPathEnvVar)

		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithEnvVars tests loading configuration from environment variables
func TestLoadWithEnvVars(t *testing.T) {
	os.Clearenv()

	// Required
	os.Setenv("JWT_SECRET", "test-secret")

	// Overrides
	os.Setenv("HTTP_PORT", "9000")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("STORE_IN_MEMORY", "true")
	os.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	os.Setenv("RECOMMEND_NEIGHBORS", "7")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Store.InMemory {
		t.Error("Store.InMemory = false, want true")
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("Security.CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	if cfg.Recommend.Neighbors != 7 {
		t.Errorf("Recommend.Neighbors = %d, want 7", cfg.Recommend.Neighbors)
	}

	// Untouched values keep defaults
	if cfg.API.DefaultLimit != 20 {
		t.Errorf("API.DefaultLimit = %d, want default 20", cfg.API.DefaultLimit)
	}
}

// TestLoadMissingJWTSecret verifies that a missing secret fails validation
func TestLoadMissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("STORE_IN_MEMORY", "true")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without JWT_SECRET")
	}
}

// TestValidate exercises Validate() against invalid configurations
func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWTSecret = "test-secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "" },
			wantErr: "jwt_secret",
		},
		{
			name: "short secret in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = "short"
			},
			wantErr: "32 characters",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.Security.BcryptCost = 2 },
			wantErr: "bcrypt_cost",
		},
		{
			name: "missing store path",
			mutate: func(c *Config) {
				c.Store.Path = ""
				c.Store.InMemory = false
			},
			wantErr: "store.path",
		},
		{
			name: "in-memory store needs no path",
			mutate: func(c *Config) {
				c.Store.Path = ""
				c.Store.InMemory = true
			},
		},
		{
			name:    "gc discard ratio out of range",
			mutate:  func(c *Config) { c.Store.GCDiscardRatio = 1.5 },
			wantErr: "gc_discard_ratio",
		},
		{
			name:    "negative recommend weight",
			mutate:  func(c *Config) { c.Recommend.ContentWeight = -0.1 },
			wantErr: "non-negative",
		},
		{
			name: "both recommend weights zero",
			mutate: func(c *Config) {
				c.Recommend.ContentWeight = 0
				c.Recommend.CollaborativeWeight = 0
			},
			wantErr: "positive",
		},
		{
			name:    "recommend neighbors too low",
			mutate:  func(c *Config) { c.Recommend.Neighbors = 0 },
			wantErr: "neighbors",
		},
		{
			name: "max limit below default limit",
			mutate: func(c *Config) {
				c.API.DefaultLimit = 50
				c.API.MaxLimit = 10
			},
			wantErr: "api limits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestTagVocabulary verifies the curated tag catalog
func TestTagVocabulary(t *testing.T) {
	tags := TagVocabulary()
	if len(tags) != 14 {
		t.Fatalf("TagVocabulary() returned %d tags, want 14", len(tags))
	}

	for _, tag := range []string{"Aventura", "Teatro", "Ar Livre", "Infantil/Crianças"} {
		if !IsKnownTag(tag) {
			t.Errorf("IsKnownTag(%q) = false, want true", tag)
		}
	}
	if IsKnownTag("Esportes") {
		t.Error("IsKnownTag(Esportes) = true, want false")
	}
	if IsKnownTag("") {
		t.Error("IsKnownTag(empty) = true, want false")
	}

	// Returned slice is a copy
	tags[0] = "mutated"
	if TagVocabulary()[0] == "mutated" {
		t.Error("TagVocabulary() should return a copy")
	}
}

// TestXPLadder verifies the cumulative XP thresholds
func TestXPLadder(t *testing.T) {
	ladder := XPLadder()
	if len(ladder) != MaxLevel() {
		t.Fatalf("XPLadder() length = %d, want %d", len(ladder), MaxLevel())
	}
	if ladder[0] != 0 {
		t.Errorf("level 1 threshold = %d, want 0", ladder[0])
	}
	if ladder[9] != 2700 {
		t.Errorf("level 10 threshold = %d, want 2700", ladder[9])
	}
	if ladder[len(ladder)-1] != 10450 {
		t.Errorf("level %d threshold = %d, want 10450", MaxLevel(), ladder[len(ladder)-1])
	}

	// Strictly increasing
	for i := 1; i < len(ladder); i++ {
		if ladder[i] <= ladder[i-1] {
			t.Errorf("ladder not strictly increasing at index %d: %d <= %d", i, ladder[i], ladder[i-1])
		}
	}
}
