// Package metrics computes the twelve core visibility metrics plus the
// derived brand scores, and folds them into the weighted overall score and
// letter grade.  Every metric has a deterministic fallback so a degraded
// environment still yields a complete, correctly-shaped result.
package metrics

import (
	"math"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
)

// OptimizationMetrics is the full metric set for one analysis.
type OptimizationMetrics struct {
	ChunkRetrievalFrequency   float64 `json:"chunk_retrieval_frequency"`
	EmbeddingRelevanceScore   float64 `json:"embedding_relevance_score"`
	AttributionRate           float64 `json:"attribution_rate"`
	AICitationCount           int     `json:"ai_citation_count"`
	VectorIndexPresenceRatio  float64 `json:"vector_index_presence_ratio"`
	RetrievalConfidenceScore  float64 `json:"retrieval_confidence_score"`
	RRFRankContribution       float64 `json:"rrf_rank_contribution"`
	LLMAnswerCoverage         float64 `json:"llm_answer_coverage"`
	AIModelCrawlSuccessRate   float64 `json:"ai_model_crawl_success_rate"`
	SemanticDensityScore      float64 `json:"semantic_density_score"`
	ZeroClickSurfacePresence  float64 `json:"zero_click_surface_presence"`
	MachineValidatedAuthority float64 `json:"machine_validated_authority"`

	BrandStrengthScore       float64 `json:"brand_strength_score"`
	BrandVisibilityPotential float64 `json:"brand_visibility_potential"`
	ContentQualityScore      float64 `json:"content_quality_score"`
	IndustryRelevance        float64 `json:"industry_relevance"`
	AmandaCrastScore         float64 `json:"amanda_crast_score"`

	OverallScore     float64 `json:"overall_score"`
	PerformanceGrade string  `json:"performance_grade"`
}

// citationTarget normalizes the raw citation count: 40 citations count as a
// perfect score.
const citationTarget = 40.0

// overallWeights is the fixed weight table over the 12 core metrics; the
// weights sum to 1.0.
var overallWeights = []struct {
	weight float64
	value  func(*OptimizationMetrics) float64
}{
	{0.15, func(m *OptimizationMetrics) float64 { return m.AttributionRate }},
	{0.10, func(m *OptimizationMetrics) float64 { return math.Min(1.0, float64(m.AICitationCount)/citationTarget) }},
	{0.12, func(m *OptimizationMetrics) float64 { return m.EmbeddingRelevanceScore }},
	{0.10, func(m *OptimizationMetrics) float64 { return m.ChunkRetrievalFrequency }},
	{0.10, func(m *OptimizationMetrics) float64 { return m.SemanticDensityScore }},
	{0.12, func(m *OptimizationMetrics) float64 { return m.LLMAnswerCoverage }},
	{0.08, func(m *OptimizationMetrics) float64 { return m.ZeroClickSurfacePresence }},
	{0.13, func(m *OptimizationMetrics) float64 { return m.MachineValidatedAuthority }},
	{0.04, func(m *OptimizationMetrics) float64 { return m.VectorIndexPresenceRatio }},
	{0.03, func(m *OptimizationMetrics) float64 { return m.RetrievalConfidenceScore }},
	{0.02, func(m *OptimizationMetrics) float64 { return m.RRFRankContribution }},
	{0.01, func(m *OptimizationMetrics) float64 { return m.AIModelCrawlSuccessRate }},
}

// ComputeOverallScore folds the 12 core metrics into [0,1] using the fixed
// weight table.
func (m *OptimizationMetrics) ComputeOverallScore() float64 {
	var score float64
	for _, entry := range overallWeights {
		score += entry.weight * entry.value(m)
	}
	return clamp01(score)
}

// gradeThresholds maps descending score cut-offs to letter grades.
var gradeThresholds = []struct {
	min   float64
	grade string
}{
	{0.90, "A+"}, {0.85, "A"}, {0.80, "A-"},
	{0.75, "B+"}, {0.70, "B"}, {0.65, "B-"},
	{0.60, "C+"}, {0.55, "C"}, {0.50, "C-"},
	{0.40, "D"},
}

// ComputePerformanceGrade maps the overall score to a letter grade.  A tiny
// brand-seeded jitter (at most +0.003) is added before thresholding to keep
// grades stable across near-identical repeated inputs; it can never move the
// grade by more than one step.
func (m *OptimizationMetrics) ComputePerformanceGrade(brandName string) string {
	jitter := float64(brand.Hash32(brandName)%4) / 1000.0
	score := clamp01(m.ComputeOverallScore() + jitter)
	for _, t := range gradeThresholds {
		if score >= t.min {
			return t.grade
		}
	}
	return "F"
}

// Finalize fills the derived OverallScore and PerformanceGrade fields.
func (m *OptimizationMetrics) Finalize(brandName string) {
	m.OverallScore = round4(m.ComputeOverallScore())
	m.PerformanceGrade = m.ComputePerformanceGrade(brandName)
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
