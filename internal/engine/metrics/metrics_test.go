package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullMarks() *OptimizationMetrics {
	return &OptimizationMetrics{
		ChunkRetrievalFrequency:   1.0,
		EmbeddingRelevanceScore:   1.0,
		AttributionRate:           1.0,
		AICitationCount:           40,
		VectorIndexPresenceRatio:  1.0,
		RetrievalConfidenceScore:  1.0,
		RRFRankContribution:       1.0,
		LLMAnswerCoverage:         1.0,
		AIModelCrawlSuccessRate:   1.0,
		SemanticDensityScore:      1.0,
		ZeroClickSurfacePresence:  1.0,
		MachineValidatedAuthority: 1.0,
	}
}

func TestComputeOverallScore_WeightsPartitionUnity(t *testing.T) {
	m := fullMarks()
	assert.InDelta(t, 1.0, m.ComputeOverallScore(), 1e-9)

	zero := &OptimizationMetrics{}
	assert.Equal(t, 0.0, zero.ComputeOverallScore())
}

func TestComputeOverallScore_CitationNormalization(t *testing.T) {
	m := &OptimizationMetrics{AICitationCount: 20}
	assert.InDelta(t, 0.10*0.5, m.ComputeOverallScore(), 1e-9)

	// Citation counts beyond the target are clamped, not extrapolated.
	over := &OptimizationMetrics{AICitationCount: 400}
	assert.InDelta(t, 0.10, over.ComputeOverallScore(), 1e-9)
}

func TestComputeOverallScore_Range(t *testing.T) {
	for _, m := range []*OptimizationMetrics{
		{},
		fullMarks(),
		{AttributionRate: 0.5, SemanticDensityScore: 0.7, AICitationCount: 12},
	} {
		score := m.ComputeOverallScore()
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestComputePerformanceGrade_Thresholds(t *testing.T) {
	// Jitter is at most +0.003, so scores comfortably inside a band cannot
	// cross into the next-but-one grade.
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, "A+"},
		{0.86, "A"},
		{0.81, "A-"},
		{0.76, "B+"},
		{0.71, "B"},
		{0.66, "B-"},
		{0.61, "C+"},
		{0.56, "C"},
		{0.51, "C-"},
		{0.45, "D"},
		{0.30, "F"},
	}
	for _, tt := range tests {
		// Setting every core metric to the target score lands the weighted
		// overall score on (approximately) that value.
		m := &OptimizationMetrics{
			AttributionRate:           tt.score,
			EmbeddingRelevanceScore:   tt.score,
			ChunkRetrievalFrequency:   tt.score,
			SemanticDensityScore:      tt.score,
			LLMAnswerCoverage:         tt.score,
			ZeroClickSurfacePresence:  tt.score,
			MachineValidatedAuthority: tt.score,
			VectorIndexPresenceRatio:  tt.score,
			RetrievalConfidenceScore:  tt.score,
			RRFRankContribution:       tt.score,
			AIModelCrawlSuccessRate:   tt.score,
			AICitationCount:           int(tt.score * 40),
		}
		grade := m.ComputePerformanceGrade("Nova Robotics")
		assert.Equal(t, tt.want, grade, "score %.2f", tt.score)
	}
}

func TestComputePerformanceGrade_Deterministic(t *testing.T) {
	m := fullMarks()
	assert.Equal(t, m.ComputePerformanceGrade("Acme"), m.ComputePerformanceGrade("Acme"))
}

func TestFinalize(t *testing.T) {
	m := fullMarks()
	m.Finalize("Acme")
	assert.Equal(t, 1.0, m.OverallScore)
	assert.Equal(t, "A+", m.PerformanceGrade)
}
