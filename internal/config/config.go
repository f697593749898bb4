// Package config defines all configuration structures for the BrandLens-AI
// engine.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// EngineConfig holds the analysis engine tunables and provider credentials.
type EngineConfig struct {
	// QueryMode selects query generation: "hybrid" tries the LLM and falls
	// back to heuristics silently; "llm_only" fails hard without a usable key.
	QueryMode string `mapstructure:"query_mode"`

	AnthropicAPIKey  string `mapstructure:"anthropic_api_key"`
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	PerplexityAPIKey string `mapstructure:"perplexity_api_key"`

	// MaxQueriesPerProvider bounds how many generated queries are sent to
	// each live platform per analysis.
	MaxQueriesPerProvider int `mapstructure:"max_queries_per_provider"`

	// ProviderTimeout bounds each individual provider call.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`

	// MaxQueries caps the generated query set.
	MaxQueries int `mapstructure:"max_queries"`
}

// EmbeddingConfig holds the optional embedding backend settings.
type EmbeddingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// RedisConfig holds Redis connection parameters for the shared cache backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CacheConfig selects and configures the memoization backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// LogConfig holds structured-logging settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Top-level config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for the engine and CLI.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate checks cross-field consistency.  Defaults are expected to have
// been applied already.
func (c *Config) Validate() error {
	switch c.Engine.QueryMode {
	case "hybrid", "llm_only":
	default:
		return fmt.Errorf("engine.query_mode must be \"hybrid\" or \"llm_only\", got %q", c.Engine.QueryMode)
	}
	if c.Engine.MaxQueries <= 0 {
		return fmt.Errorf("engine.max_queries must be positive, got %d", c.Engine.MaxQueries)
	}
	if c.Engine.MaxQueriesPerProvider <= 0 {
		return fmt.Errorf("engine.max_queries_per_provider must be positive, got %d", c.Engine.MaxQueriesPerProvider)
	}
	if c.Engine.ProviderTimeout <= 0 {
		return fmt.Errorf("engine.provider_timeout must be positive, got %s", c.Engine.ProviderTimeout)
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required when cache.backend is \"redis\"")
		}
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be \"json\" or \"console\", got %q", c.Log.Format)
	}

	if c.Embedding.Enabled && c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required when embedding is enabled")
	}
	return nil
}
