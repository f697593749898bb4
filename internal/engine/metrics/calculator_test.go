package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/domain/content"
	"github.com/turtacn/BrandLens-AI/internal/engine/tester"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/embedding"
)

type unitEncoder struct{}

func (unitEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (unitEncoder) Name() string { return "unit" }

func sampleChunks(embedded bool) []content.Chunk {
	chunks := []content.Chunk{
		{
			Text:            "Nova Robotics builds warehouse automation: picking, packing, and palletizing arms for fulfillment centers around the world today.",
			WordCount:       55,
			Keywords:        []string{"nova", "robotics", "warehouse", "automation", "arms"},
			SemanticTags:    []string{"warehouse", "automation", "fulfillment"},
			HasStructure:    true,
			ConfidenceScore: 1.0,
		},
		{
			Text:            "What is Nova Robotics? A robotics company focused on safety and throughput.",
			WordCount:       12,
			Keywords:        []string{"nova", "robotics", "safety"},
			SemanticTags:    []string{"robotics", "safety"},
			HasStructure:    false,
			ConfidenceScore: 0.24,
		},
	}
	if embedded {
		chunks[0].Embedding = []float32{1, 0, 0}
		chunks[1].Embedding = []float32{0.8, 0.6, 0}
	}
	return chunks
}

func assertAllInRange(t *testing.T, m *OptimizationMetrics) {
	t.Helper()
	floats := map[string]float64{
		"chunk_retrieval_frequency":   m.ChunkRetrievalFrequency,
		"embedding_relevance_score":   m.EmbeddingRelevanceScore,
		"attribution_rate":            m.AttributionRate,
		"vector_index_presence_ratio": m.VectorIndexPresenceRatio,
		"retrieval_confidence_score":  m.RetrievalConfidenceScore,
		"rrf_rank_contribution":       m.RRFRankContribution,
		"llm_answer_coverage":         m.LLMAnswerCoverage,
		"ai_model_crawl_success_rate": m.AIModelCrawlSuccessRate,
		"semantic_density_score":      m.SemanticDensityScore,
		"zero_click_surface_presence": m.ZeroClickSurfacePresence,
		"machine_validated_authority": m.MachineValidatedAuthority,
		"brand_strength_score":        m.BrandStrengthScore,
		"brand_visibility_potential":  m.BrandVisibilityPotential,
		"content_quality_score":       m.ContentQualityScore,
		"industry_relevance":          m.IndustryRelevance,
		"amanda_crast_score":          m.AmandaCrastScore,
		"overall_score":               m.OverallScore,
	}
	for name, v := range floats {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
	assert.GreaterOrEqual(t, m.AICitationCount, 0)
	assert.NotEmpty(t, m.PerformanceGrade)
}

func TestCompute_NoChunksNoResults_AllFallbacks(t *testing.T) {
	calc := NewCalculator(Config{})
	brandCtx := brand.DeriveContext("Nova Robotics", []string{"robotics"})

	m := calc.Compute(context.Background(), brandCtx, nil, nil, nil)
	assertAllInRange(t, m)

	assert.Equal(t, 0.0, m.ChunkRetrievalFrequency)
	assert.Equal(t, 0.0, m.SemanticDensityScore)
	assert.Equal(t, 0.0, m.AttributionRate)
	assert.Equal(t, 0, m.AICitationCount)
	assert.Equal(t, 0.0, m.RRFRankContribution)
	assert.Equal(t, 0.0, m.ZeroClickSurfacePresence)
	assert.Equal(t, brand.StrengthScore("Nova Robotics"), m.AIModelCrawlSuccessRate)
	assert.Equal(t, brand.RecoveryScore("Nova Robotics"), m.VectorIndexPresenceRatio)
	assert.Equal(t, brand.VisibilityFallback("Nova Robotics"), m.BrandVisibilityPotential)
}

func TestCompute_ChunksWithoutEmbeddings(t *testing.T) {
	calc := NewCalculator(Config{})
	brandCtx := brand.DeriveContext("Nova Robotics", []string{"robotics"})
	queries := []string{"What is Nova Robotics?", "Nova Robotics pricing"}

	m := calc.Compute(context.Background(), brandCtx, sampleChunks(false), queries, nil)
	assertAllInRange(t, m)

	assert.Greater(t, m.ChunkRetrievalFrequency, 0.0)
	assert.Greater(t, m.SemanticDensityScore, 0.0)
	// Both chunks mention the brand.
	assert.Equal(t, 1.0, m.AttributionRate)
	assert.Equal(t, 2, m.AICitationCount)
	assert.GreaterOrEqual(t, m.ZeroClickSurfacePresence, 0.1)
	assert.LessOrEqual(t, m.ZeroClickSurfacePresence, 0.8)
}

func TestCompute_WithEmbeddings(t *testing.T) {
	idx := embedding.NewIndex(unitEncoder{}, nil)
	calc := NewCalculator(Config{Index: idx})
	brandCtx := brand.DeriveContext("Nova Robotics", []string{"robotics"})
	queries := []string{"What is Nova Robotics?", "Nova Robotics pricing"}

	m := calc.Compute(context.Background(), brandCtx, sampleChunks(true), queries, nil)
	assertAllInRange(t, m)

	// Chunk 0 aligns exactly with the unit query vectors; chunk 1 partially.
	assert.Greater(t, m.EmbeddingRelevanceScore, 0.5)
	assert.Greater(t, m.RRFRankContribution, 0.0)
	assert.Greater(t, m.VectorIndexPresenceRatio, 0.0)
	assert.Greater(t, m.LLMAnswerCoverage, 0.0)
}

func TestCompute_NegativeSimilarityClampsToZero(t *testing.T) {
	idx := embedding.NewIndex(unitEncoder{}, nil)
	calc := NewCalculator(Config{Index: idx})
	brandCtx := brand.DeriveContext("Nova Robotics", []string{"robotics"})

	// Chunks point away from every unit query vector, so the mean cosine is
	// negative and must clamp to zero rather than go below the metric range.
	chunks := sampleChunks(true)
	chunks[0].Embedding = []float32{-1, 0, 0}
	chunks[1].Embedding = []float32{-0.8, -0.6, 0}

	m := calc.Compute(context.Background(), brandCtx, chunks, []string{"What is Nova Robotics?"}, nil)
	assert.Equal(t, 0.0, m.EmbeddingRelevanceScore)
	assert.Equal(t, 0.0, m.RetrievalConfidenceScore)
	assertAllInRange(t, m)
}

func TestCompute_Deterministic(t *testing.T) {
	calc := NewCalculator(Config{})
	brandCtx := brand.DeriveContext("Acme", nil)
	chunks := sampleChunks(false)
	queries := []string{"What is Acme?"}

	a := calc.Compute(context.Background(), brandCtx, chunks, queries, nil)
	b := calc.Compute(context.Background(), brandCtx, chunks, queries, nil)
	assert.Equal(t, a, b)
}

func TestCompute_UsesTestResultsForAttribution(t *testing.T) {
	calc := NewCalculator(Config{})
	brandCtx := brand.DeriveContext("Nova Robotics", nil)

	results := &tester.Results{
		TotalTests:    4,
		TotalMentions: 3,
		Queries: []tester.QueryResult{
			{Responses: []tester.ProviderResponse{{Response: "Nova Robotics is great. Nova Robotics ships fast."}}},
		},
	}

	m := calc.Compute(context.Background(), brandCtx, nil, nil, results)
	assert.Equal(t, 0.75, m.AttributionRate)
	assert.Equal(t, 2, m.AICitationCount)
}

func TestCompute_VisibilityPotentialFromLiveResults(t *testing.T) {
	calc := NewCalculator(Config{})
	brandCtx := brand.DeriveContext("Nova Robotics", nil)

	live := &tester.Results{
		Simulated:     false,
		TotalTests:    4,
		TotalMentions: 4,
		Queries: []tester.QueryResult{
			{Mentioned: true}, {Mentioned: true}, {Mentioned: true}, {Mentioned: true},
		},
	}
	m := calc.Compute(context.Background(), brandCtx, nil, nil, live)
	assert.InDelta(t, 0.9, m.BrandVisibilityPotential, 1e-9)

	simulated := &tester.Results{Simulated: true, TotalTests: 4, TotalMentions: 4}
	m2 := calc.Compute(context.Background(), brandCtx, nil, nil, simulated)
	assert.Equal(t, brand.VisibilityFallback("Nova Robotics"), m2.BrandVisibilityPotential)
}

func TestCompute_MachineAuthorityBlend(t *testing.T) {
	calc := NewCalculator(Config{})
	brandCtx := brand.DeriveContext("Nova Robotics", nil)

	m := calc.Compute(context.Background(), brandCtx, sampleChunks(false), []string{"q"}, nil)
	want := clamp01(0.4*m.AttributionRate + 0.3*m.SemanticDensityScore + 0.3*m.VectorIndexPresenceRatio)
	assert.InDelta(t, want, m.MachineValidatedAuthority, 1e-9)
}

func TestCompute_IndustryRelevanceByIndustry(t *testing.T) {
	calc := NewCalculator(Config{})

	tech := calc.Compute(context.Background(), brand.DeriveContext("CloudWorks", nil), nil, nil, nil)
	strength := brand.StrengthScore("CloudWorks")
	assert.InDelta(t, clamp01(0.4+0.4*0.8+0.2*strength), tech.IndustryRelevance, 1e-4)
}

func TestCitationCount_CountsChunksAndResponses(t *testing.T) {
	calc := NewCalculator(Config{})
	chunks := []content.Chunk{{Text: "Acme leads. Acme's arms are fast."}}
	results := &tester.Results{
		Queries: []tester.QueryResult{
			{Responses: []tester.ProviderResponse{{Response: "Acme is known for innovation."}}},
		},
	}
	require.Equal(t, 3, calc.citationCount("Acme", chunks, results))
	assert.Equal(t, 0, calc.citationCount("", chunks, results))
}
