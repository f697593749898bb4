// Package tester dispatches generated queries to zero or more chat providers,
// detects brand mentions in the answers, and aggregates per-query and
// per-platform visibility statistics.  With no providers configured it
// produces deterministic simulated results so the pipeline never blocks on
// missing credentials.
package tester

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/engine/query"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/llm"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/prometheus"
)

// ProviderResponse is one provider's answer to one query.
type ProviderResponse struct {
	Provider       string   `json:"platform"`
	Query          string   `json:"query"`
	Response       string   `json:"response,omitempty"`
	BrandMentioned bool     `json:"brand_mentioned"`
	Position       *float64 `json:"position,omitempty"`
}

// QueryResult aggregates all provider answers for one query.
type QueryResult struct {
	Query        string             `json:"query"`
	Intent       string             `json:"intent"`
	Mentioned    bool               `json:"mentioned"`
	MentionCount int                `json:"mention_count"`
	TotalTests   int                `json:"total_tests"`
	// Position is the mean pseudo-rank across mentioning responses;
	// nil when the brand was never mentioned.
	Position    *float64           `json:"position,omitempty"`
	Responses   []ProviderResponse `json:"responses"`
	Suggestions []string           `json:"optimization_suggestions"`
}

// PlatformStat is the per-provider mention tally.
type PlatformStat struct {
	Responses int `json:"responses"`
	Mentions  int `json:"mentions"`
}

// Results is the full outcome of one test run.
type Results struct {
	Simulated          bool                    `json:"simulated"`
	Queries            []QueryResult           `json:"queries"`
	PlatformStats      map[string]PlatformStat `json:"platform_stats"`
	IntentDistribution map[string]float64      `json:"intent_distribution"`
	TotalMentions      int                     `json:"total_mentions"`
	TotalTests         int                     `json:"total_tests"`
	// AvgPosition is averaged over mentioning responses; defaults to 5.0
	// when nothing was mentioned.
	AvgPosition float64 `json:"avg_position"`
}

// MentionRate returns the fraction of tested queries that mentioned the
// brand, in [0,1].
func (r *Results) MentionRate() float64 {
	if len(r.Queries) == 0 {
		return 0.0
	}
	mentioned := 0
	for _, q := range r.Queries {
		if q.Mentioned {
			mentioned++
		}
	}
	return float64(mentioned) / float64(len(r.Queries))
}

// Tester runs queries against the configured providers.
type Tester struct {
	providers       []llm.ChatProvider
	perProviderCap  int
	providerTimeout time.Duration
	logger          logging.Logger
	metrics         *prommetrics.EngineMetrics
}

// Config carries the Tester's dependencies and bounds.
type Config struct {
	Providers []llm.ChatProvider
	// PerProviderCap bounds how many queries each provider receives.
	PerProviderCap  int
	ProviderTimeout time.Duration
	Logger          logging.Logger
	Metrics         *prommetrics.EngineMetrics
}

// New builds a Tester.
func New(cfg Config) *Tester {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	perCap := cfg.PerProviderCap
	if perCap <= 0 {
		perCap = 8
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Tester{
		providers:       cfg.Providers,
		perProviderCap:  perCap,
		providerTimeout: timeout,
		logger:          logger.Named("tester"),
		metrics:         cfg.Metrics,
	}
}

// Test runs the query set.  With no providers it simulates every query;
// otherwise the first PerProviderCap queries go to each provider
// concurrently, and provider errors are logged and excluded from aggregates.
func (t *Tester) Test(ctx context.Context, brandName string, queries []string) *Results {
	if len(t.providers) == 0 {
		return t.simulate(ctx, brandName, queries)
	}
	return t.testLive(ctx, brandName, queries)
}

// simulate produces deterministic results covering every query, answered by
// the simulated provider.
func (t *Tester) simulate(ctx context.Context, brandName string, queries []string) *Results {
	provider := llm.NewSimulatedProvider(brandName)
	results := &Results{
		Simulated:          true,
		Queries:            make([]QueryResult, 0, len(queries)),
		PlatformStats:      map[string]PlatformStat{},
		IntentDistribution: query.IntentDistribution(queries),
	}

	var positions []float64
	for _, q := range queries {
		response, _ := provider.Complete(ctx, q, 0)
		mentioned := brand.Detect(brandName, response)
		pos := Position(brandName, response, mentioned)

		qr := QueryResult{
			Query:       q,
			Intent:      string(query.ClassifyIntent(q)),
			Mentioned:   mentioned,
			TotalTests:  1,
			Position:    pos,
			Suggestions: suggestions(brandName, q, mentioned),
			Responses: []ProviderResponse{{
				Provider:       provider.Name(),
				Query:          q,
				Response:       response,
				BrandMentioned: mentioned,
				Position:       pos,
			}},
		}
		if mentioned {
			qr.MentionCount = 1
			results.TotalMentions++
			if pos != nil {
				positions = append(positions, *pos)
			}
		}
		results.Queries = append(results.Queries, qr)
		results.TotalTests++
	}

	results.PlatformStats[provider.Name()] = PlatformStat{
		Responses: results.TotalTests,
		Mentions:  results.TotalMentions,
	}
	results.AvgPosition = meanOrDefault(positions, 5.0)
	return results
}

// testLive fans the capped query subset out across providers.
func (t *Tester) testLive(ctx context.Context, brandName string, queries []string) *Results {
	tested := queries
	if len(tested) > t.perProviderCap {
		tested = tested[:t.perProviderCap]
	}

	var (
		mu        sync.Mutex
		responses = make(map[string][]ProviderResponse, len(tested))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, provider := range t.providers {
		provider := provider
		group.Go(func() error {
			for _, q := range tested {
				resp, err := t.ask(groupCtx, provider, brandName, q)
				if err != nil {
					t.countProvider(provider.Name(), "error")
					t.logger.Warn("provider query failed, excluding from aggregates",
						logging.String("provider", provider.Name()),
						logging.String("query", q),
						logging.Err(err))
					continue
				}
				t.countProvider(provider.Name(), "ok")
				mu.Lock()
				responses[q] = append(responses[q], resp)
				mu.Unlock()
			}
			return nil
		})
	}
	// Worker closures never return errors; provider failures are recovered
	// per call above.
	_ = group.Wait()

	if len(responses) == 0 {
		t.logger.Warn("all provider calls failed, falling back to simulated results",
			logging.Int("providers", len(t.providers)),
			logging.Int("queries", len(tested)))
		return t.simulate(ctx, brandName, queries)
	}
	return t.aggregate(brandName, tested, responses)
}

func (t *Tester) ask(ctx context.Context, provider llm.ChatProvider, brandName, q string) (ProviderResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.providerTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Answer the following question comprehensively. If %s is relevant, include it naturally in the answer.\n\nQuestion: %s",
		brandName, q)
	text, err := provider.Complete(callCtx, prompt, 400)
	if err != nil {
		return ProviderResponse{}, err
	}

	mentioned := brand.Detect(brandName, text)
	return ProviderResponse{
		Provider:       provider.Name(),
		Query:          q,
		Response:       text,
		BrandMentioned: mentioned,
		Position:       Position(brandName, text, mentioned),
	}, nil
}

func (t *Tester) aggregate(brandName string, tested []string, responses map[string][]ProviderResponse) *Results {
	results := &Results{
		Queries:            make([]QueryResult, 0, len(tested)),
		PlatformStats:      map[string]PlatformStat{},
		IntentDistribution: query.IntentDistribution(tested),
	}

	var positions []float64
	for _, q := range tested {
		qr := QueryResult{
			Query:     q,
			Intent:    string(query.ClassifyIntent(q)),
			Responses: responses[q],
		}
		var queryPositions []float64
		for _, resp := range qr.Responses {
			qr.TotalTests++
			results.TotalTests++

			stat := results.PlatformStats[resp.Provider]
			stat.Responses++
			if resp.BrandMentioned {
				stat.Mentions++
				qr.Mentioned = true
				qr.MentionCount++
				results.TotalMentions++
				if resp.Position != nil {
					queryPositions = append(queryPositions, *resp.Position)
					positions = append(positions, *resp.Position)
				}
			}
			results.PlatformStats[resp.Provider] = stat
		}
		if len(queryPositions) > 0 {
			avg := meanOrDefault(queryPositions, 5.0)
			qr.Position = &avg
		}
		qr.Suggestions = suggestions(brandName, q, qr.Mentioned)
		results.Queries = append(results.Queries, qr)
	}

	results.AvgPosition = meanOrDefault(positions, 5.0)
	return results
}

func (t *Tester) countProvider(provider, outcome string) {
	if t.metrics != nil {
		t.metrics.ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	}
}

// positiveIndicators and negativeIndicators steer the position heuristic:
// favorable context pushes the pseudo-rank toward 1, unfavorable toward 10.
var (
	positiveIndicators = []string{"recommend", "excellent", "best", "top", "leading", "trusted", "reliable", "great", "good", "popular"}
	negativeIndicators = []string{"avoid", "poor", "worst", "unreliable", "problematic", "bad", "issues", "problems"}
)

// Position derives the pseudo-rank of a brand within a response.  It is only
// defined when the brand was mentioned; lower is better.  The result is
// deterministic: the brand name fixes the base position and the response
// text fixes the per-response variation.
func Position(brandName, responseText string, mentioned bool) *float64 {
	if !mentioned {
		return nil
	}

	lowered := strings.ToLower(responseText)
	mentionCount := strings.Count(lowered, strings.ToLower(brandName))
	mentionBoost := math.Min(2.0, float64(mentionCount)*0.5)

	var positive, negative int
	for _, w := range positiveIndicators {
		if strings.Contains(lowered, w) {
			positive++
		}
	}
	for _, w := range negativeIndicators {
		if strings.Contains(lowered, w) {
			negative++
		}
	}
	quality := float64(positive)*0.8 - float64(negative)*1.5

	base := 6.0 - brand.StrengthScore(brandName)*4.0
	variation := float64(brand.Hash32(responseText)%20)/10.0 - 1.0

	pos := base - mentionBoost - quality + variation
	pos = math.Max(1.0, math.Min(10.0, math.Round(pos*10)/10))
	return &pos
}

func suggestions(brandName, q string, mentioned bool) []string {
	out := []string{fmt.Sprintf("Optimize content for '%s' query", q)}
	if mentioned {
		first := q
		if fields := strings.Fields(q); len(fields) > 0 {
			first = fields[0]
		}
		out = append(out, fmt.Sprintf("Improve brand visibility in %s context", first))
	} else {
		out = append(out, fmt.Sprintf("Add %s mentions for '%s'", brandName, q))
	}
	return out
}

func meanOrDefault(values []float64, def float64) float64 {
	if len(values) == 0 {
		return def
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SortedPlatforms returns platform names in deterministic order, for logging
// and report rendering.
func SortedPlatforms(stats map[string]PlatformStat) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
