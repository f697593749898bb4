// Package report folds metrics, query test results, and brand context into
// the final analysis report: summary, prioritized recommendations, and a
// phased roadmap.  Building is a pure function of its inputs, so identical
// inputs always produce identical reports.
package report

import (
	"time"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/engine/metrics"
	"github.com/turtacn/BrandLens-AI/internal/engine/tester"
)

// Priority orders recommendations by urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Recommendation is one actionable improvement, interpolated with the brand
// name.
type Recommendation struct {
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items"`
	Impact      string   `json:"impact"`
	Effort      string   `json:"effort"`
	Timeline    string   `json:"timeline"`
}

// PerformanceSummary is the top-line scorecard.
type PerformanceSummary struct {
	OverallScore     float64  `json:"overall_score"`
	PerformanceGrade string   `json:"performance_grade"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
}

// QueryAnalysis carries the per-query outcomes plus the platform and intent
// aggregates.
type QueryAnalysis struct {
	Queries            []tester.QueryResult           `json:"all_queries"`
	PlatformStats      map[string]tester.PlatformStat `json:"platform_breakdown"`
	IntentDistribution map[string]float64             `json:"intent_insights"`
	TotalMentions      int                            `json:"total_mentions"`
	TotalTests         int                            `json:"total_tests"`
	SuccessRate        float64                        `json:"success_rate"`
	AvgPosition        float64                        `json:"avg_position"`
}

// RoadmapPhase is one stage of the fixed 3-phase implementation roadmap.
type RoadmapPhase struct {
	Phase    int      `json:"phase"`
	Name     string   `json:"name"`
	Timeline string   `json:"timeline"`
	Focus    []string `json:"focus"`
}

// Metadata distinguishes degraded from full-fidelity analyses; consumers
// never have to infer fidelity from missing fields.
type Metadata struct {
	CategoriesAnalyzed    []string `json:"categories_analyzed"`
	HasWebsite            bool     `json:"has_website"`
	HasContentSample      bool     `json:"has_content_sample"`
	CompetitorsIncluded   int      `json:"competitors_included"`
	TotalQueriesGenerated int      `json:"total_queries_generated"`
	// AnalysisMethod is "real" when live providers answered queries,
	// "simulated" otherwise.
	AnalysisMethod string `json:"analysis_method"`
	LLMAPIsUsed    bool   `json:"llm_apis_used"`
}

// Report is the complete output of one analysis.
type Report struct {
	ID                  string                       `json:"id"`
	BrandName           string                       `json:"brand_name"`
	AnalysisDate        time.Time                    `json:"analysis_date"`
	BrandContext        *brand.Context               `json:"brand_context"`
	Metrics             *metrics.OptimizationMetrics `json:"optimization_metrics"`
	PerformanceSummary  PerformanceSummary           `json:"performance_summary"`
	Recommendations     []Recommendation             `json:"priority_recommendations"`
	SemanticQueries     []string                     `json:"semantic_queries"`
	QueryAnalysis       QueryAnalysis                `json:"query_analysis"`
	Roadmap             []RoadmapPhase               `json:"implementation_roadmap"`
	CompetitorsOverview []string                     `json:"competitors_overview"`
	Metadata            Metadata                     `json:"metadata"`
}
