// Package engine assembles the full analysis pipeline behind a small facade:
// derive the brand context, chunk content, generate queries, test them
// against AI platforms, compute metrics, and build the report.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/BrandLens-AI/internal/config"
	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/domain/content"
	"github.com/turtacn/BrandLens-AI/internal/engine/metrics"
	"github.com/turtacn/BrandLens-AI/internal/engine/query"
	"github.com/turtacn/BrandLens-AI/internal/engine/report"
	"github.com/turtacn/BrandLens-AI/internal/engine/tester"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/cache"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/embedding"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/llm"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/BrandLens-AI/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Engine and construction
// ─────────────────────────────────────────────────────────────────────────────

// Engine is the top-level facade.  One Engine is safe for concurrent use;
// all pipeline stages are stateless or internally synchronized.
type Engine struct {
	cfg       *config.Config
	logger    logging.Logger
	metrics   *prommetrics.EngineMetrics
	providers []llm.ChatProvider
	index     *embedding.Index

	chunker    *content.Chunker
	generator  *query.Generator
	tester     *tester.Tester
	calculator *metrics.Calculator

	now func() time.Time
}

// Option adjusts Engine construction.
type Option func(*Engine)

// WithLogger replaces the default nop logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the prometheus collector set.
func WithMetrics(m *prommetrics.EngineMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithProviders replaces the providers derived from configured API keys.
// Used by tests and by embedders that manage their own clients.
func WithProviders(providers ...llm.ChatProvider) Option {
	return func(e *Engine) { e.providers = providers }
}

// WithEncoder replaces the embedding backend derived from configuration.
func WithEncoder(enc embedding.Encoder) Option {
	return func(e *Engine) { e.index = embedding.NewIndex(enc, e.logger) }
}

// WithClock overrides the report timestamp source.  Tests use this to pin
// report IDs.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// keyUsable reports whether an API key can plausibly authenticate.  The
// sentinel "test_key" and short placeholder strings are treated as absent so
// a dev config never burns real provider calls.
func keyUsable(key string) bool {
	return key != "" && key != "test_key" && len(key) >= 10
}

// providersFromConfig wires one chat provider per usable key.
func providersFromConfig(cfg config.EngineConfig) []llm.ChatProvider {
	var providers []llm.ChatProvider
	if keyUsable(cfg.AnthropicAPIKey) {
		providers = append(providers, llm.NewAnthropicProvider(cfg.AnthropicAPIKey))
	}
	if keyUsable(cfg.OpenAIAPIKey) {
		providers = append(providers, llm.NewOpenAIProvider(cfg.OpenAIAPIKey))
	}
	if keyUsable(cfg.PerplexityAPIKey) {
		providers = append(providers, llm.NewPerplexityProvider(cfg.PerplexityAPIKey))
	}
	return providers
}

// New builds an Engine from configuration.  Options are applied after the
// config-derived wiring, so they win.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "invalid engine configuration")
	}

	e := &Engine{
		cfg:       cfg,
		logger:    logging.NewNopLogger(),
		providers: providersFromConfig(cfg.Engine),
		now:       time.Now,
	}
	if cfg.Embedding.Enabled {
		enc := embedding.NewOllamaEncoder(
			embedding.WithOllamaBaseURL(cfg.Embedding.BaseURL),
			embedding.WithOllamaModel(cfg.Embedding.Model),
		)
		e.index = embedding.NewIndex(enc, nil)
	}
	for _, opt := range opts {
		opt(e)
	}

	memo, err := buildCache(context.Background(), cfg.Cache)
	if err != nil {
		return nil, err
	}

	e.chunker = content.NewChunker(e.index, e.logger)
	e.generator = query.NewGenerator(query.GeneratorConfig{
		Providers: e.providers,
		Cache:     memo,
		CacheTTL:  cfg.Cache.TTL,
		Logger:    e.logger,
		Metrics:   e.metrics,
	})
	e.tester = tester.New(tester.Config{
		Providers:       e.providers,
		PerProviderCap:  cfg.Engine.MaxQueriesPerProvider,
		ProviderTimeout: cfg.Engine.ProviderTimeout,
		Logger:          e.logger,
		Metrics:         e.metrics,
	})
	e.calculator = metrics.NewCalculator(metrics.Config{
		Index:   e.index,
		Logger:  e.logger,
		Metrics: e.metrics,
	})
	return e, nil
}

func buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Backend == "redis" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	}
	return cache.NewMemoryCache(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Requests and validation
// ─────────────────────────────────────────────────────────────────────────────

// AnalyzeRequest is one full-analysis invocation.  Only BrandName is
// required; categories and the other fields enrich the result when present.
type AnalyzeRequest struct {
	BrandName     string
	Categories    []string
	WebsiteURL    string
	ContentSample string
	Competitors   []string
}

func (r *AnalyzeRequest) validate() error {
	if err := validateBrandName(r.BrandName); err != nil {
		return err
	}
	for _, c := range r.Categories {
		if strings.TrimSpace(c) == "" {
			return errors.Validation("product categories must be non-blank")
		}
	}
	return nil
}

func validateBrandName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return errors.Validation("brand name must be at least 2 characters")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Operations
// ─────────────────────────────────────────────────────────────────────────────

// Analyze runs the complete pipeline and returns the final report.  With no
// usable providers the query testing stage simulates responses, and the
// report's metadata marks the analysis method accordingly.
func (e *Engine) Analyze(ctx context.Context, req AnalyzeRequest) (*report.Report, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	start := e.now()

	brandCtx := brand.DeriveContext(req.BrandName, req.Categories)
	e.logger.Info("analysis started",
		logging.String("brand", req.BrandName),
		logging.String("industry", brandCtx.Industry.String()),
		logging.Int("providers", len(e.providers)))

	chunks := e.chunker.Chunk(ctx, req.ContentSample, req.BrandName, brandCtx.Industry)

	queries, err := e.generator.Generate(ctx, brandCtx, req.Categories, query.Mode(e.cfg.Engine.QueryMode))
	if err != nil {
		return nil, err
	}

	results := e.tester.Test(ctx, req.BrandName, queries)
	m := e.calculator.Compute(ctx, brandCtx, chunks, queries, results)

	rep := report.Build(report.BuildInput{
		BrandContext: brandCtx,
		Metrics:      m,
		Queries:      queries,
		TestResults:  results,
		Categories:   req.Categories,
		Competitors:  req.Competitors,
		WebsiteURL:   req.WebsiteURL,
		HasContent:   strings.TrimSpace(req.ContentSample) != "",
		GeneratedAt:  start,
	})

	e.observe("analyze", rep.Metadata.AnalysisMethod, start)
	e.logger.Info("analysis finished",
		logging.String("brand", req.BrandName),
		logging.String("method", rep.Metadata.AnalysisMethod),
		logging.Float64("overall_score", m.OverallScore),
		logging.String("grade", m.PerformanceGrade))
	return rep, nil
}

// ComputeMetrics scores a content sample without running live query tests.
// Coverage-sensitive metrics run against the heuristic query set so the full
// metric surface is always populated.
func (e *Engine) ComputeMetrics(ctx context.Context, brandName, contentSample string) (*metrics.OptimizationMetrics, error) {
	if err := validateBrandName(brandName); err != nil {
		return nil, err
	}
	start := e.now()

	brandCtx := brand.DeriveContext(brandName, nil)
	chunks := e.chunker.Chunk(ctx, contentSample, brandName, brandCtx.Industry)
	queries := query.HeuristicQueries(brandCtx, nil)

	m := e.calculator.Compute(ctx, brandCtx, chunks, queries, nil)
	e.observe("compute_metrics", "simulated", start)
	return m, nil
}

// QueryInsights is the AnalyzeQueries result: the generated query set plus
// its intent mix.
type QueryInsights struct {
	BrandName          string             `json:"brand_name"`
	Queries            []string           `json:"queries"`
	IntentDistribution map[string]float64 `json:"intent_distribution"`
}

// AnalyzeQueries generates the query set for a brand and classifies it by
// intent, without testing against any platform.
func (e *Engine) AnalyzeQueries(ctx context.Context, brandName string, categories []string) (*QueryInsights, error) {
	if err := validateBrandName(brandName); err != nil {
		return nil, err
	}
	start := e.now()

	brandCtx := brand.DeriveContext(brandName, categories)
	queries, err := e.generator.Generate(ctx, brandCtx, categories, query.Mode(e.cfg.Engine.QueryMode))
	if err != nil {
		return nil, err
	}

	e.observe("analyze_queries", "simulated", start)
	return &QueryInsights{
		BrandName:          brandName,
		Queries:            queries,
		IntentDistribution: query.IntentDistribution(queries),
	}, nil
}

func (e *Engine) observe(operation, method string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.AnalysesTotal.WithLabelValues(operation, method).Inc()
	e.metrics.AnalysisDuration.WithLabelValues(operation).Observe(e.now().Sub(start).Seconds())
}
