package query

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/cache"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/llm"
	prommetrics "github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/BrandLens-AI/pkg/errors"
)

type scriptedProvider struct {
	name      string
	responses []string
	err       error
	calls     int
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Complete(_ context.Context, _ string, _ int) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	idx := p.calls - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func techContext() *brand.Context {
	return brand.DeriveContext("Nova Robotics", []string{"robotics"})
}

func TestGenerate_Heuristic_NoProviders(t *testing.T) {
	g := NewGenerator(GeneratorConfig{})
	queries, err := g.Generate(context.Background(), techContext(), []string{"robotics"}, ModeHybrid)
	require.NoError(t, err)

	assert.NotEmpty(t, queries)
	assert.LessOrEqual(t, len(queries), MaxQueries)
	for _, q := range queries {
		assert.Contains(t, strings.ToLower(q), "nova robotics", q)
		assert.NotEmpty(t, strings.TrimSpace(q))
	}

	// Order-stable and deterministic.
	again, err := g.Generate(context.Background(), techContext(), []string{"robotics"}, ModeHybrid)
	require.NoError(t, err)
	assert.Equal(t, queries, again)
}

func TestGenerate_LLMLines(t *testing.T) {
	p := &scriptedProvider{name: "anthropic", responses: []string{
		"What is Nova Robotics?\n- Nova Robotics pricing\n2. Nova Robotics reviews\n\nwhat is nova robotics?",
	}}
	g := NewGenerator(GeneratorConfig{Providers: []llm.ChatProvider{p}})

	queries, err := g.Generate(context.Background(), techContext(), nil, ModeHybrid)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is Nova Robotics?", "Nova Robotics pricing", "Nova Robotics reviews"}, queries)
}

func TestGenerate_Hybrid_FallsBackOnProviderError(t *testing.T) {
	p := &scriptedProvider{name: "anthropic", err: apperrors.Provider("down", nil)}
	g := NewGenerator(GeneratorConfig{Providers: []llm.ChatProvider{p}})

	queries, err := g.Generate(context.Background(), techContext(), nil, ModeHybrid)
	require.NoError(t, err)
	assert.NotEmpty(t, queries)
	assert.Equal(t, 1, p.calls)
}

func TestGenerate_LLMOnly_NoProviders(t *testing.T) {
	g := NewGenerator(GeneratorConfig{})
	_, err := g.Generate(context.Background(), techContext(), nil, ModeLLMOnly)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestGenerate_LLMOnly_RetriesThenJSON(t *testing.T) {
	// First two attempts yield nothing usable; the JSON retry succeeds.
	p := &scriptedProvider{name: "openai", responses: []string{
		"",
		"",
		`Here you go: ["Nova Robotics overview", "Nova Robotics pricing"]`,
	}}
	g := NewGenerator(GeneratorConfig{Providers: []llm.ChatProvider{p}})

	queries, err := g.Generate(context.Background(), techContext(), nil, ModeLLMOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nova Robotics overview", "Nova Robotics pricing"}, queries)
	assert.Equal(t, 3, p.calls)
}

func TestGenerate_LLMOnly_ExhaustedRetriesFails(t *testing.T) {
	p := &scriptedProvider{name: "openai", responses: []string{""}}
	g := NewGenerator(GeneratorConfig{Providers: []llm.ChatProvider{p}})

	_, err := g.Generate(context.Background(), techContext(), nil, ModeLLMOnly)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestGenerate_Memoization(t *testing.T) {
	p := &scriptedProvider{name: "anthropic", responses: []string{"Nova Robotics overview"}}
	reg := prometheus.NewRegistry()
	g := NewGenerator(GeneratorConfig{
		Providers: []llm.ChatProvider{p},
		Cache:     cache.NewMemoryCache(),
		Metrics:   prommetrics.NewEngineMetrics(reg),
	})

	first, err := g.Generate(context.Background(), techContext(), []string{"robotics"}, ModeHybrid)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), techContext(), []string{"robotics"}, ModeHybrid)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls, "second call served from cache")
}

func TestHeuristicQueries_CategoryExpansion(t *testing.T) {
	queries := HeuristicQueries(techContext(), []string{"warehouse automation", "  "})
	joined := strings.Join(queries, "\n")
	assert.Contains(t, joined, "Nova Robotics warehouse automation pricing")
	assert.Contains(t, joined, "Is Nova Robotics good for warehouse automation?")
	assert.NotContains(t, joined, "Nova Robotics   ")
}

func TestFinalize_CapAndDedupe(t *testing.T) {
	var many []string
	for i := 0; i < 80; i++ {
		many = append(many, "q"+strings.Repeat("x", i+1))
	}
	many = append(many, strings.ToUpper(many[0]), many[1])
	out := finalize(many)
	assert.LessOrEqual(t, len(out), MaxQueries)

	seen := map[string]bool{}
	for _, q := range out {
		key := strings.ToLower(q)
		assert.False(t, seen[key], "duplicate %q", q)
		seen[key] = true
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"Nova Robotics pricing", IntentPurchase},
		{"buy Nova Robotics arm", IntentPurchase},
		{"Nova Robotics vs competitors", IntentComparison},
		{"Best alternatives to Nova Robotics", IntentComparison},
		{"Nova Robotics reviews", IntentEvaluation},
		{"Is Nova Robotics good?", IntentEvaluation},
		{"Nova Robotics docs", IntentNavigation},
		{"What is Nova Robotics?", IntentInformational},
		{"How does Nova Robotics work?", IntentInformational},
		{"Nova Robotics", IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.query))
		})
	}
}

func TestIntentDistribution(t *testing.T) {
	dist := IntentDistribution([]string{
		"What is Acme?",
		"Acme pricing",
		"Acme vs rivals",
		"Acme",
	})
	assert.InDelta(t, 0.25, dist[string(IntentInformational)], 1e-9)
	assert.InDelta(t, 0.25, dist[string(IntentPurchase)], 1e-9)
	assert.InDelta(t, 0.25, dist[string(IntentComparison)], 1e-9)
	assert.InDelta(t, 0.25, dist[string(IntentGeneral)], 1e-9)

	var total float64
	for _, v := range dist {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	assert.Empty(t, IntentDistribution(nil))
}
