// Package query produces the bounded, deduplicated set of natural-language
// test queries for a brand.  Generation is LLM-backed with a deterministic
// heuristic fallback; results are memoized per brand+categories.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/cache"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/llm"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/BrandLens-AI/pkg/errors"
)

// Mode selects the generation strategy.
type Mode string

const (
	// ModeHybrid tries the LLM first and silently falls back to heuristics.
	ModeHybrid Mode = "hybrid"
	// ModeLLMOnly requires a working provider and fails hard otherwise.
	ModeLLMOnly Mode = "llm_only"
)

// MaxQueries caps the generated query set.
const MaxQueries = 60

const generationMaxTokens = 1000

// Generator produces test queries for a brand.
type Generator struct {
	providers []llm.ChatProvider
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    logging.Logger
	metrics   *prommetrics.EngineMetrics
}

// GeneratorConfig carries the Generator's dependencies.  Cache and Metrics
// are optional; a nil cache disables memoization.
type GeneratorConfig struct {
	Providers []llm.ChatProvider
	Cache     cache.Cache
	CacheTTL  time.Duration
	Logger    logging.Logger
	Metrics   *prommetrics.EngineMetrics
}

// NewGenerator builds a Generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{
		providers: cfg.Providers,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		logger:    logger.Named("query-generator"),
		metrics:   cfg.Metrics,
	}
}

// Generate returns 1–60 unique, non-empty, order-stable queries for the
// brand.  In hybrid mode it never fails; in llm_only mode it returns a
// Configuration error when no provider yields usable output after retries.
func (g *Generator) Generate(ctx context.Context, brandCtx *brand.Context, categories []string, mode Mode) ([]string, error) {
	if key := g.cacheKey(brandCtx.BrandName, categories, mode); g.cache != nil {
		var cached []string
		if err := g.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			g.countCache("hit")
			return cached, nil
		}
		g.countCache("miss")
	}

	queries, err := g.generate(ctx, brandCtx, categories, mode)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		key := g.cacheKey(brandCtx.BrandName, categories, mode)
		if err := g.cache.Set(ctx, key, queries, g.cacheTTL); err != nil {
			g.logger.Warn("query cache write failed", logging.Err(err))
		}
	}
	return queries, nil
}

func (g *Generator) generate(ctx context.Context, brandCtx *brand.Context, categories []string, mode Mode) ([]string, error) {
	if mode == ModeLLMOnly {
		return g.generateStrict(ctx, brandCtx, categories)
	}

	if len(g.providers) > 0 {
		queries := g.llmGenerate(ctx, buildPrompt(brandCtx, categories))
		if len(queries) > 0 {
			g.logger.Info("generated queries via LLM",
				logging.String("brand", brandCtx.BrandName),
				logging.Int("count", len(queries)))
			return finalize(queries), nil
		}
		g.logger.Warn("LLM query generation empty, falling back to heuristics",
			logging.String("brand", brandCtx.BrandName))
	}

	queries := finalize(HeuristicQueries(brandCtx, categories))
	g.logger.Info("generated queries via heuristics",
		logging.String("brand", brandCtx.BrandName),
		logging.Int("count", len(queries)))
	return queries, nil
}

// generateStrict implements llm_only mode: retry with a stricter prompt,
// then with a JSON-array output format, then fail.
func (g *Generator) generateStrict(ctx context.Context, brandCtx *brand.Context, categories []string) ([]string, error) {
	if len(g.providers) == 0 {
		return nil, errors.Configuration("llm_only query generation requires a configured chat provider")
	}

	prompt := buildPrompt(brandCtx, categories)
	if queries := g.llmGenerate(ctx, prompt); len(queries) > 0 {
		return finalize(queries), nil
	}

	stricter := prompt + "\nImportant: Ensure each query explicitly contains the brand name. Output queries only."
	if queries := g.llmGenerate(ctx, stricter); len(queries) > 0 {
		return finalize(queries), nil
	}

	jsonPrompt := prompt + "\nReturn the queries as a single JSON array of strings and nothing else."
	if queries := g.llmGenerateJSON(ctx, jsonPrompt); len(queries) > 0 {
		return finalize(queries), nil
	}

	return nil, errors.Configuration("llm_only query generation returned no queries after retries")
}

// llmGenerate asks each provider in turn and merges their line-delimited
// output.  Provider failures are logged and skipped.
func (g *Generator) llmGenerate(ctx context.Context, prompt string) []string {
	var queries []string
	for _, provider := range g.providers {
		text, err := provider.Complete(ctx, prompt, generationMaxTokens)
		if err != nil {
			g.countProvider(provider.Name(), "error")
			g.logger.Warn("provider query generation failed",
				logging.String("provider", provider.Name()),
				logging.Err(err))
			continue
		}
		g.countProvider(provider.Name(), "ok")
		queries = append(queries, parseLines(text)...)
	}
	return queries
}

func (g *Generator) llmGenerateJSON(ctx context.Context, prompt string) []string {
	for _, provider := range g.providers {
		text, err := provider.Complete(ctx, prompt, generationMaxTokens)
		if err != nil {
			g.countProvider(provider.Name(), "error")
			continue
		}
		g.countProvider(provider.Name(), "ok")

		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start < 0 || end <= start {
			continue
		}
		var parsed []string
		if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
			g.logger.Warn("provider returned unparseable JSON query array",
				logging.String("provider", provider.Name()),
				logging.Err(err))
			continue
		}
		if len(parsed) > 0 {
			return parsed
		}
	}
	return nil
}

func (g *Generator) cacheKey(brandName string, categories []string, mode Mode) string {
	return fmt.Sprintf("queries:%s|%s|%s",
		strings.ToLower(brandName), mode, strings.ToLower(strings.Join(categories, ",")))
}

func (g *Generator) countCache(outcome string) {
	if g.metrics != nil {
		g.metrics.QueryCacheHitsTotal.WithLabelValues(outcome).Inc()
	}
}

func (g *Generator) countProvider(provider, outcome string) {
	if g.metrics != nil {
		g.metrics.ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	}
}

// buildPrompt asks for line-delimited queries grounded in the brand context.
func buildPrompt(brandCtx *brand.Context, categories []string) string {
	var sb strings.Builder
	sb.WriteString("You generate search-style queries to evaluate a brand's presence in AI answers.\n")
	sb.WriteString("Output rules:\n")
	sb.WriteString("- Return 25-40 queries.\n")
	sb.WriteString("- One query per line.\n")
	sb.WriteString("- No numbering or bullets.\n")
	sb.WriteString("- Keep queries short and realistic.\n")
	fmt.Fprintf(&sb, "Generate diverse semantic queries that users might ask about %s.\n", brandCtx.BrandName)
	fmt.Fprintf(&sb, "Industry: %s\n", brandCtx.Industry)
	fmt.Fprintf(&sb, "Brand type: %s\n", brandCtx.BrandType)
	if len(categories) > 0 {
		fmt.Fprintf(&sb, "Product categories: %s\n", strings.Join(categories, ", "))
	}
	fmt.Fprintf(&sb, "Use cases: %s\n", strings.Join(brandCtx.UseCases, ", "))
	sb.WriteString("\nCover direct brand questions, comparisons, pricing, use cases, troubleshooting, and integrations.\n")
	sb.WriteString("Return only the queries, one per line, without numbering or bullets.")
	return sb.String()
}

// parseLines turns an LLM completion into candidate queries, stripping list
// markers and numbering.
func parseLines(text string) []string {
	lines := strings.Split(text, "\n")
	queries := make([]string, 0, len(lines))
	for _, line := range lines {
		q := stripMarkers(line)
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// stripMarkers removes leading bullets, numbering, and surrounding quotes.
func stripMarkers(line string) string {
	q := strings.TrimSpace(line)
	q = strings.TrimLeft(q, "-•*\t ")
	// Numbered prefixes like "12. " or "3) ".
	for i := 0; i < len(q); i++ {
		if q[i] >= '0' && q[i] <= '9' {
			continue
		}
		if (q[i] == '.' || q[i] == ')') && i > 0 {
			q = strings.TrimSpace(q[i+1:])
		}
		break
	}
	return strings.Trim(strings.TrimSpace(q), `"`)
}

// HeuristicQueries builds the deterministic fallback query set from industry
// templates, generic brand templates, category expansions, and intent
// variants.  The result always contains at least one query for a non-empty
// brand name.
func HeuristicQueries(brandCtx *brand.Context, categories []string) []string {
	name := brandCtx.BrandName
	queries := industryQueries(name, brandCtx.Industry)

	queries = append(queries,
		fmt.Sprintf("What is %s?", name),
		fmt.Sprintf("Tell me about %s", name),
		fmt.Sprintf("%s pricing", name),
		fmt.Sprintf("%s reviews", name),
		fmt.Sprintf("%s features", name),
		fmt.Sprintf("%s benefits", name),
		fmt.Sprintf("%s vs competitors", name),
		fmt.Sprintf("Best alternatives to %s", name),
		fmt.Sprintf("Is %s good?", name),
		fmt.Sprintf("How does %s work?", name),
	)

	for _, cat := range categories {
		c := strings.TrimSpace(cat)
		if c == "" {
			continue
		}
		queries = append(queries,
			fmt.Sprintf("%s %s", name, c),
			fmt.Sprintf("%s %s pricing", name, c),
			fmt.Sprintf("%s %s reviews", name, c),
			fmt.Sprintf("%s %s vs alternatives", name, c),
			fmt.Sprintf("Is %s good for %s?", name, c),
			fmt.Sprintf("%s %s integration", name, c),
		)
	}

	for _, variant := range []string{"setup", "tutorial", "docs", "comparison", "support", "limitations", "security", "API", "case studies"} {
		queries = append(queries, fmt.Sprintf("%s %s", name, variant))
	}
	return queries
}

func industryQueries(name string, industry brand.Industry) []string {
	switch industry {
	case brand.IndustryTechnology:
		return []string{
			fmt.Sprintf("What does %s do?", name),
			fmt.Sprintf("Is %s good for enterprises?", name),
			fmt.Sprintf("%s integration capabilities", name),
			fmt.Sprintf("%s security features", name),
		}
	case brand.IndustryAutomotive:
		return []string{
			fmt.Sprintf("Are %s cars reliable?", name),
			fmt.Sprintf("%s EV range", name),
			fmt.Sprintf("%s safety ratings", name),
		}
	case brand.IndustryHealthcare:
		return []string{
			fmt.Sprintf("Is %s FDA approved?", name),
			fmt.Sprintf("%s clinical outcomes", name),
			fmt.Sprintf("%s patient safety", name),
		}
	case brand.IndustryFinance:
		return []string{
			fmt.Sprintf("Is %s safe?", name),
			fmt.Sprintf("%s fees", name),
			fmt.Sprintf("%s returns", name),
		}
	case brand.IndustryRealEstate:
		return []string{
			fmt.Sprintf("Is %s trustworthy?", name),
			fmt.Sprintf("%s listings", name),
			fmt.Sprintf("%s locations", name),
		}
	case brand.IndustryEnergy:
		return []string{
			fmt.Sprintf("Is %s renewable?", name),
			fmt.Sprintf("%s solar efficiency", name),
			fmt.Sprintf("%s battery technology", name),
		}
	default:
		return []string{
			fmt.Sprintf("What is %s?", name),
			fmt.Sprintf("Is %s good?", name),
			fmt.Sprintf("%s reviews", name),
		}
	}
}

// finalize trims, case-insensitively deduplicates preserving first-seen
// order, and caps the query list.
func finalize(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if len(out) == MaxQueries {
			break
		}
	}
	return out
}
