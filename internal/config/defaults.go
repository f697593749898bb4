package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultQueryMode             = "hybrid"
	DefaultMaxQueries            = 60
	DefaultMaxQueriesPerProvider = 8
	DefaultProviderTimeout       = 45 * time.Second

	DefaultEmbeddingBaseURL = "http://localhost:11434"
	DefaultEmbeddingModel   = "nomic-embed-text"

	DefaultCacheBackend = "memory"
	DefaultCacheTTL     = time.Hour
	DefaultRedisAddr    = "localhost:6379"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.QueryMode == "" {
		cfg.Engine.QueryMode = DefaultQueryMode
	}
	if cfg.Engine.MaxQueries == 0 {
		cfg.Engine.MaxQueries = DefaultMaxQueries
	}
	if cfg.Engine.MaxQueriesPerProvider == 0 {
		cfg.Engine.MaxQueriesPerProvider = DefaultMaxQueriesPerProvider
	}
	if cfg.Engine.ProviderTimeout == 0 {
		cfg.Engine.ProviderTimeout = DefaultProviderTimeout
	}

	// ── Embedding ─────────────────────────────────────────────────────────────
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = DefaultEmbeddingBaseURL
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = DefaultEmbeddingModel
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
}
