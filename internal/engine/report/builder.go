package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/engine/metrics"
	"github.com/turtacn/BrandLens-AI/internal/engine/tester"
)

// High- and low-water marks for the strengths/weaknesses scorecard.
const (
	strengthMark = 0.7
	weaknessMark = 0.4
)

// BuildInput carries everything a report is derived from.  GeneratedAt is an
// input rather than a clock read so that building stays a pure function.
type BuildInput struct {
	BrandContext *brand.Context
	Metrics      *metrics.OptimizationMetrics
	Queries      []string
	TestResults  *tester.Results
	Categories   []string
	Competitors  []string
	WebsiteURL   string
	HasContent   bool
	GeneratedAt  time.Time
}

// Build assembles the final report.  It is deterministic given its input.
func Build(in BuildInput) *Report {
	brandName := in.BrandContext.BrandName
	m := in.Metrics

	recs := buildRecommendations(brandName, m)
	method := "simulated"
	if in.TestResults != nil && !in.TestResults.Simulated {
		method = "real"
	}

	return &Report{
		ID:                  reportID(brandName, in.GeneratedAt),
		BrandName:           brandName,
		AnalysisDate:        in.GeneratedAt,
		BrandContext:        in.BrandContext,
		Metrics:             m,
		PerformanceSummary:  buildSummary(m),
		Recommendations:     recs,
		SemanticQueries:     in.Queries,
		QueryAnalysis:       buildQueryAnalysis(in.TestResults),
		Roadmap:             buildRoadmap(recs),
		CompetitorsOverview: append([]string{}, in.Competitors...),
		Metadata: Metadata{
			CategoriesAnalyzed:    append([]string{}, in.Categories...),
			HasWebsite:            in.WebsiteURL != "",
			HasContentSample:      in.HasContent,
			CompetitorsIncluded:   len(in.Competitors),
			TotalQueriesGenerated: len(in.Queries),
			AnalysisMethod:        method,
			LLMAPIsUsed:           method == "real",
		},
	}
}

// reportID derives a stable UUID from the brand and timestamp, so re-running
// the same analysis yields the same identifier.
func reportID(brandName string, at time.Time) string {
	seed := fmt.Sprintf("brandlens:%s:%s", brandName, at.UTC().Format(time.RFC3339Nano))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

// scoreboardEntries drive the strengths/weaknesses lists.
var scoreboardEntries = []struct {
	label string
	value func(*metrics.OptimizationMetrics) float64
}{
	{"attribution rate", func(m *metrics.OptimizationMetrics) float64 { return m.AttributionRate }},
	{"embedding relevance", func(m *metrics.OptimizationMetrics) float64 { return m.EmbeddingRelevanceScore }},
	{"chunk retrieval frequency", func(m *metrics.OptimizationMetrics) float64 { return m.ChunkRetrievalFrequency }},
	{"semantic density", func(m *metrics.OptimizationMetrics) float64 { return m.SemanticDensityScore }},
	{"LLM answer coverage", func(m *metrics.OptimizationMetrics) float64 { return m.LLMAnswerCoverage }},
	{"zero-click surface presence", func(m *metrics.OptimizationMetrics) float64 { return m.ZeroClickSurfacePresence }},
	{"machine-validated authority", func(m *metrics.OptimizationMetrics) float64 { return m.MachineValidatedAuthority }},
	{"vector index presence", func(m *metrics.OptimizationMetrics) float64 { return m.VectorIndexPresenceRatio }},
	{"content quality", func(m *metrics.OptimizationMetrics) float64 { return m.ContentQualityScore }},
	{"brand visibility potential", func(m *metrics.OptimizationMetrics) float64 { return m.BrandVisibilityPotential }},
}

func buildSummary(m *metrics.OptimizationMetrics) PerformanceSummary {
	summary := PerformanceSummary{
		OverallScore:     m.OverallScore,
		PerformanceGrade: m.PerformanceGrade,
		Strengths:        []string{},
		Weaknesses:       []string{},
	}
	for _, entry := range scoreboardEntries {
		v := entry.value(m)
		switch {
		case v > strengthMark:
			summary.Strengths = append(summary.Strengths, fmt.Sprintf("Strong %s (%.1f%%)", entry.label, v*100))
		case v < weaknessMark:
			summary.Weaknesses = append(summary.Weaknesses, fmt.Sprintf("Low %s (%.1f%%)", entry.label, v*100))
		}
	}
	return summary
}

// buildRecommendations applies the fixed threshold rule table.  The low
// bucket always carries the monitoring recommendation so the report is never
// empty-handed.
func buildRecommendations(brandName string, m *metrics.OptimizationMetrics) []Recommendation {
	var recs []Recommendation

	if m.AttributionRate < 0.3 || m.BrandVisibilityPotential < 0.3 {
		recs = append(recs, Recommendation{
			Priority: PriorityCritical,
			Category: "Brand Visibility Crisis",
			Title:    "Urgent Brand Recognition Issues",
			Description: fmt.Sprintf(
				"Critical visibility problems detected for %s. Attribution rate: %.1f%%, visibility potential: %.1f%%.",
				brandName, m.AttributionRate*100, m.BrandVisibilityPotential*100),
			ActionItems: []string{
				"Immediate brand audit and competitive analysis",
				"Emergency content creation focusing on brand mentions",
				"Implement aggressive SEO and content marketing strategy",
			},
			Impact:   "high",
			Effort:   "high",
			Timeline: "0-30 days",
		})
	}

	if m.AttributionRate < 0.6 {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Category: "Attribution",
			Title:    fmt.Sprintf("Improve %s Attribution Rate", brandName),
			Description: fmt.Sprintf(
				"AI answers mention %s in only %.1f%% of tested responses; targeted content raises that share.",
				brandName, m.AttributionRate*100),
			ActionItems: []string{
				"Create comprehensive FAQ and knowledge base content",
				fmt.Sprintf("Publish authoritative explainers that pair %s with its product category", brandName),
				"Optimize content for AI model training data",
			},
			Impact:   "high",
			Effort:   "medium",
			Timeline: "1-3 months",
		})
	}

	if m.LLMAnswerCoverage < 0.5 {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Category: "Answer Coverage",
			Title:    "Expand Question-Answering Content",
			Description: fmt.Sprintf(
				"Content answers only %.1f%% of common question types about %s.",
				m.LLMAnswerCoverage*100, brandName),
			ActionItems: []string{
				"Map unanswered question types to new content briefs",
				"Add what/how/why sections to existing pages",
			},
			Impact:   "high",
			Effort:   "medium",
			Timeline: "1-3 months",
		})
	}

	if m.ContentQualityScore < 0.7 {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Category: "Content Quality",
			Title:    "Enhance Content Quality and Semantic Density",
			Description: fmt.Sprintf(
				"Content quality for %s scores %.1f%%; richer structure and keywords improve retrieval.",
				brandName, m.ContentQualityScore*100),
			ActionItems: []string{
				"Implement structured data and schema markup",
				"Develop topic clusters for better coverage",
				"Break long pages into well-structured sections",
			},
			Impact:   "medium",
			Effort:   "medium",
			Timeline: "1-3 months",
		})
	}

	if m.ZeroClickSurfacePresence < 0.4 {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Category: "Zero-Click Optimization",
			Title:    "Optimize for Featured Answer Surfaces",
			Description: fmt.Sprintf(
				"%s content has a %.1f%% fit for direct-answer surfaces.",
				brandName, m.ZeroClickSurfacePresence*100),
			ActionItems: []string{
				"Lead sections with concise, self-contained answers",
				"Use lists and definition-style formatting for key facts",
			},
			Impact:   "medium",
			Effort:   "low",
			Timeline: "1-3 months",
		})
	}

	recs = append(recs, Recommendation{
		Priority:    PriorityLow,
		Category:    "Monitoring",
		Title:       "Track AI Visibility Over Time",
		Description: fmt.Sprintf("Establish a recurring visibility baseline for %s.", brandName),
		ActionItems: []string{
			"Monitor AI citation opportunities",
			"Track competitor AI visibility performance",
			"Re-run analysis after each major content release",
		},
		Impact:   "low",
		Effort:   "low",
		Timeline: "3-6 months",
	})

	return recs
}

// buildRoadmap populates the fixed 3-phase template from the active
// recommendation set.
func buildRoadmap(recs []Recommendation) []RoadmapPhase {
	phases := []RoadmapPhase{
		{Phase: 1, Name: "Quick Wins", Timeline: "0-30 days", Focus: []string{}},
		{Phase: 2, Name: "Structural Improvements", Timeline: "1-3 months", Focus: []string{}},
		{Phase: 3, Name: "Advanced Optimization", Timeline: "3-6 months", Focus: []string{}},
	}
	for _, rec := range recs {
		switch rec.Priority {
		case PriorityCritical, PriorityHigh:
			phases[0].Focus = append(phases[0].Focus, rec.Title)
		case PriorityMedium:
			phases[1].Focus = append(phases[1].Focus, rec.Title)
		default:
			phases[2].Focus = append(phases[2].Focus, rec.Title)
		}
	}
	return phases
}

func buildQueryAnalysis(results *tester.Results) QueryAnalysis {
	if results == nil {
		return QueryAnalysis{
			Queries:            []tester.QueryResult{},
			PlatformStats:      map[string]tester.PlatformStat{},
			IntentDistribution: map[string]float64{},
			AvgPosition:        5.0,
		}
	}
	qa := QueryAnalysis{
		Queries:            results.Queries,
		PlatformStats:      results.PlatformStats,
		IntentDistribution: results.IntentDistribution,
		TotalMentions:      results.TotalMentions,
		TotalTests:         results.TotalTests,
		AvgPosition:        results.AvgPosition,
	}
	if results.TotalTests > 0 {
		qa.SuccessRate = float64(results.TotalMentions) / float64(results.TotalTests)
	}
	return qa
}
