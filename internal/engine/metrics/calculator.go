package metrics

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/domain/content"
	"github.com/turtacn/BrandLens-AI/internal/engine/tester"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/embedding"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/prometheus"
)

// questionBank is the fixed question-type set used for answer coverage.
var questionBank = []string{
	"what", "how", "where", "when", "why", "can", "does", "is", "are",
	"benefits of", "advantages of", "features of", "compare", "best",
	"top", "guide", "tutorial", "review", "price", "cost", "buy", "purchase",
}

// questionMarkers flag chunks whose text directly answers a question.
var questionMarkers = []string{"what is", "how to", "why", "when", "where", "benefits", "advantages"}

// industryCoverageMultipliers scale the brand-derived coverage estimate.
var industryCoverageMultipliers = map[brand.Industry]float64{
	brand.IndustryTechnology: 0.8,
	brand.IndustryHealthcare: 0.7,
	brand.IndustryFinance:    0.65,
	brand.IndustryRealEstate: 0.6,
	brand.IndustryAutomotive: 0.75,
	brand.IndustryEnergy:     0.7,
}

// industryRelevanceMultipliers scale the industry-relevance heuristic.
var industryRelevanceMultipliers = map[brand.Industry]float64{
	brand.IndustryTechnology: 0.8,
	brand.IndustryHealthcare: 0.7,
	brand.IndustryFinance:    0.7,
	brand.IndustryRealEstate: 0.65,
	brand.IndustryAutomotive: 0.75,
	brand.IndustryEnergy:     0.7,
}

// Calculator computes the full metric set from chunks, queries, and test
// results.  It never fails: each metric independently degrades to its
// documented fallback.
type Calculator struct {
	index   *embedding.Index
	logger  logging.Logger
	metrics *prommetrics.EngineMetrics
}

// Config carries the Calculator's dependencies.  All are optional.
type Config struct {
	Index   *embedding.Index
	Logger  logging.Logger
	Metrics *prommetrics.EngineMetrics
}

// NewCalculator builds a Calculator.
func NewCalculator(cfg Config) *Calculator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Calculator{
		index:   cfg.Index,
		logger:  logger.Named("metrics"),
		metrics: cfg.Metrics,
	}
}

// Compute fills every metric.  results may be nil when no query testing was
// performed (the compute_metrics path).
func (c *Calculator) Compute(ctx context.Context, brandCtx *brand.Context, chunks []content.Chunk, queries []string, results *tester.Results) *OptimizationMetrics {
	brandName := brandCtx.BrandName
	strength := brand.StrengthScore(brandName)

	var queryVecs [][]float32
	if c.index.Available() && len(queries) > 0 {
		queryVecs = c.index.Encode(ctx, queries)
	}

	m := &OptimizationMetrics{}
	m.ChunkRetrievalFrequency = c.chunkRetrievalFrequency(chunks)
	m.EmbeddingRelevanceScore = c.embeddingRelevance(brandName, chunks, queryVecs)
	m.AttributionRate = c.attributionRate(brandName, chunks, results)
	m.AICitationCount = c.citationCount(brandName, chunks, results)
	m.VectorIndexPresenceRatio = c.vectorIndexPresence(brandName, chunks)
	m.RetrievalConfidenceScore = c.retrievalConfidence(chunks, queryVecs)
	m.RRFRankContribution = c.rrfRankContribution(chunks, queryVecs)
	m.LLMAnswerCoverage = c.answerCoverage(ctx, brandCtx, chunks, queries)
	m.AIModelCrawlSuccessRate = strength
	m.SemanticDensityScore = c.semanticDensity(chunks)
	m.ZeroClickSurfacePresence = c.zeroClickPresence(brandName, chunks)
	m.MachineValidatedAuthority = clamp01(
		0.4*m.AttributionRate + 0.3*m.SemanticDensityScore + 0.3*m.VectorIndexPresenceRatio)

	m.BrandStrengthScore = strength
	m.BrandVisibilityPotential = c.visibilityPotential(brandName, results)
	m.ContentQualityScore = c.contentQuality(chunks)
	m.IndustryRelevance = c.industryRelevance(brandCtx, strength)
	m.AmandaCrastScore = c.amandaCrast(brandName, chunks)

	m.Finalize(brandName)
	return m
}

// fallback logs the degraded path and bumps the fallback counter.
func (c *Calculator) fallback(metric, reason string) {
	c.logger.Debug("metric fallback",
		logging.String("metric", metric),
		logging.String("reason", reason))
	if c.metrics != nil {
		c.metrics.MetricFallbacksTotal.WithLabelValues(metric).Inc()
	}
}

// chunkRetrievalFrequency scores chunk quality: length, structure, and
// keyword richness, averaged over all chunks.
func (c *Calculator) chunkRetrievalFrequency(chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		c.fallback("chunk_retrieval_frequency", "no chunks")
		return 0.0
	}
	var quality float64
	for _, ch := range chunks {
		var score float64
		if ch.WordCount > 50 {
			score += 0.4
		}
		if ch.HasStructure {
			score += 0.3
		}
		if len(ch.Keywords) > 3 {
			score += 0.3
		}
		quality += score
	}
	return math.Min(1.0, quality/float64(len(chunks)))
}

// embeddingRelevance averages cosine similarity between every embedded chunk
// and every query vector.
func (c *Calculator) embeddingRelevance(brandName string, chunks []content.Chunk, queryVecs [][]float32) float64 {
	if len(chunks) == 0 || len(queryVecs) == 0 {
		c.fallback("embedding_relevance_score", "no embeddings")
		return round4(0.4 + 0.4*brand.StrengthScore(brandName))
	}

	var total float64
	comparisons := 0
	for _, ch := range chunks {
		if ch.Embedding == nil {
			continue
		}
		for _, qv := range queryVecs {
			total += embedding.Similarity(ch.Embedding, qv)
			comparisons++
		}
	}
	if comparisons == 0 {
		c.fallback("embedding_relevance_score", "no embedded chunks")
		return c.contentQuality(chunks)
	}
	return embedding.ClampUnit(total / float64(comparisons))
}

// attributionRate prefers real test results; without them it falls back to
// the fraction of chunks mentioning the brand.
func (c *Calculator) attributionRate(brandName string, chunks []content.Chunk, results *tester.Results) float64 {
	if results != nil && results.TotalTests > 0 {
		return round4(float64(results.TotalMentions) / float64(results.TotalTests))
	}
	if brandName == "" || len(chunks) == 0 {
		c.fallback("attribution_rate", "no mention data")
		return 0.0
	}
	mentions := 0
	for _, ch := range chunks {
		if brand.Detect(brandName, ch.Text) {
			mentions++
		}
	}
	return round4(float64(mentions) / float64(len(chunks)))
}

// citationCount counts brand-name regex matches across chunk texts and
// provider responses.
func (c *Calculator) citationCount(brandName string, chunks []content.Chunk, results *tester.Results) int {
	if brandName == "" {
		return 0
	}
	total := 0
	for _, ch := range chunks {
		total += brand.CitationCount(brandName, ch.Text)
	}
	if results != nil {
		for _, qr := range results.Queries {
			for _, resp := range qr.Responses {
				total += brand.CitationCount(brandName, resp.Response)
			}
		}
	}
	return total
}

// vectorIndexPresence blends embedded-chunk ratio, mean embedding norm, and
// norm diversity, then applies a mild curve.
func (c *Calculator) vectorIndexPresence(brandName string, chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		c.fallback("vector_index_presence_ratio", "no chunks")
		return brand.RecoveryScore(brandName)
	}

	var norms []float64
	for _, ch := range chunks {
		if n := embedding.Norm(ch.Embedding); n > 1e-6 {
			norms = append(norms, n)
		}
	}
	if len(norms) == 0 {
		c.fallback("vector_index_presence_ratio", "no embedded chunks")
		return brand.RecoveryScore(brandName)
	}

	ratio := float64(len(norms)) / float64(len(chunks))
	avgNorm := mean(norms)
	normStd := 1.0
	if len(norms) > 1 {
		normStd = stddev(norms, avgNorm)
	}

	// Typical embedding norms fall between 0.5 and 2.0.
	normalizedNorm := clamp01((avgNorm - 0.5) / 1.5)
	diversity := math.Min(1.0, normStd/0.5)

	presence := 0.5*ratio + 0.3*normalizedNorm + 0.2*diversity
	return round4(clamp01(math.Pow(presence, 0.9)))
}

// retrievalConfidence weights query similarity by each chunk's own
// confidence score.
func (c *Calculator) retrievalConfidence(chunks []content.Chunk, queryVecs [][]float32) float64 {
	if len(chunks) == 0 || len(queryVecs) == 0 {
		c.fallback("retrieval_confidence_score", "no embeddings")
		return c.confidenceFromContentQuality(chunks)
	}

	var total float64
	comparisons := 0
	for _, ch := range chunks {
		if ch.Embedding == nil || ch.ConfidenceScore <= 0 {
			continue
		}
		var chunkConfidence float64
		for _, qv := range queryVecs {
			chunkConfidence += embedding.Similarity(ch.Embedding, qv) * ch.ConfidenceScore
			comparisons++
		}
		total += chunkConfidence / float64(len(queryVecs))
	}
	if comparisons == 0 {
		c.fallback("retrieval_confidence_score", "no embedded chunks")
		return 0.5
	}
	return embedding.ClampUnit(total / float64(len(chunks)))
}

// rrfRankCutoff bounds how many top-ranked chunks contribute per query.
const rrfRankCutoff = 10

// rrfRankContribution applies reciprocal rank fusion (k=60) over per-query
// chunk rankings.
func (c *Calculator) rrfRankContribution(chunks []content.Chunk, queryVecs [][]float32) float64 {
	if len(chunks) == 0 || len(queryVecs) == 0 {
		c.fallback("rrf_rank_contribution", "no embeddings")
		return 0.0
	}

	var total float64
	for _, qv := range queryVecs {
		var scores []float64
		for _, ch := range chunks {
			if ch.Embedding != nil {
				scores = append(scores, embedding.Similarity(ch.Embedding, qv))
			}
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

		var queryRRF float64
		for rank := 1; rank <= len(scores) && rank <= rrfRankCutoff; rank++ {
			queryRRF += 1.0 / float64(rank+60)
		}
		total += queryRRF / float64(len(queryVecs))
	}
	return math.Min(1.0, total*2.0)
}

// answerCoverage measures how well chunks answer a fixed question-type bank
// plus the first few generated queries.
func (c *Calculator) answerCoverage(ctx context.Context, brandCtx *brand.Context, chunks []content.Chunk, queries []string) float64 {
	hasEmbedded := false
	for _, ch := range chunks {
		if ch.Embedding != nil {
			hasEmbedded = true
			break
		}
	}
	if len(chunks) == 0 || len(queries) == 0 || !c.index.Available() || !hasEmbedded {
		c.fallback("llm_answer_coverage", "no embeddings")
		return c.estimateCoverage(brandCtx)
	}

	questions := append(append([]string{}, questionBank...), queries[:minInt(5, len(queries))]...)
	questionVecs := c.index.Encode(ctx, questions)
	if questionVecs == nil {
		c.fallback("llm_answer_coverage", "encode failed")
		return c.estimateCoverage(brandCtx)
	}

	const minThreshold, maxThreshold = 0.4, 0.9
	var total float64
	validQuestions := 0
	for _, qv := range questionVecs {
		maxSim := 0.0
		for _, ch := range chunks {
			if ch.Embedding == nil {
				continue
			}
			if sim := embedding.Similarity(ch.Embedding, qv); sim > maxSim {
				maxSim = sim
			}
		}
		if maxSim > minThreshold {
			total += math.Min(1.0, (maxSim-minThreshold)/(maxThreshold-minThreshold))
			validQuestions++
		}
	}
	if validQuestions == 0 {
		return 0.2
	}
	// Mild curve spreads scores across the range.
	return round4(clamp01(math.Pow(total/float64(validQuestions), 0.8)))
}

// estimateCoverage derives coverage from industry and brand strength alone.
func (c *Calculator) estimateCoverage(brandCtx *brand.Context) float64 {
	multiplier, ok := industryCoverageMultipliers[brandCtx.Industry]
	if !ok {
		multiplier = 0.6
	}
	strength := brand.StrengthScore(brandCtx.BrandName)
	return round4(clamp01(multiplier * (0.6 + 0.5*strength)))
}

// semanticDensity composites structure, keyword, and length signals per
// chunk.
func (c *Calculator) semanticDensity(chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		c.fallback("semantic_density_score", "no chunks")
		return 0.0
	}
	var total float64
	for _, ch := range chunks {
		var density float64
		switch {
		case ch.WordCount > 50:
			density += 0.3
		case ch.WordCount > 20:
			density += 0.2
		}
		if ch.HasStructure {
			density += 0.3
		}
		switch {
		case len(ch.Keywords) > 3:
			density += 0.4
		case len(ch.Keywords) > 1:
			density += 0.2
		}
		total += math.Min(1.0, density)
	}
	return clamp01(total / float64(len(chunks)))
}

// zeroClickPresence scores featured-snippet fitness and maps it into
// [0.1, 0.8] with a small deterministic brand boost.
func (c *Calculator) zeroClickPresence(brandName string, chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		c.fallback("zero_click_surface_presence", "no chunks")
		return 0.0
	}

	n := float64(len(chunks))
	var structured, question, goodLength, keywordRich float64
	for _, ch := range chunks {
		if ch.HasStructure {
			structured++
		}
		lowered := strings.ToLower(ch.Text)
		for _, marker := range questionMarkers {
			if strings.Contains(lowered, marker) {
				question++
				break
			}
		}
		if ch.WordCount >= 30 && ch.WordCount <= 200 {
			goodLength++
		}
		if len(ch.Keywords) >= 2 {
			keywordRich++
		}
	}

	total := structured/n*0.3 + question/n*0.25 + goodLength/n*0.25 + keywordRich/n*0.20
	total += float64(brand.Hash32(brandName)%20) / 100.0

	scaled := 0.1 + total*0.7
	return math.Max(0.1, math.Min(0.8, round3(scaled)))
}

// visibilityPotential scales the observed mention rate into [0.1, 0.9] when
// real provider results exist; otherwise it uses the deterministic
// brand-derived fallback.
func (c *Calculator) visibilityPotential(brandName string, results *tester.Results) float64 {
	if results != nil && !results.Simulated && results.TotalTests > 0 {
		return round4(math.Max(0.1, math.Min(0.9, 0.1+results.MentionRate()*0.8)))
	}
	c.fallback("brand_visibility_potential", "no live results")
	return brand.VisibilityFallback(brandName)
}

// contentQuality aggregates chunk features into a single quality score.
func (c *Calculator) contentQuality(chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		return 0.0
	}
	var total float64
	for _, ch := range chunks {
		var score float64
		switch {
		case ch.WordCount >= 50:
			score += 0.3
		case ch.WordCount >= 25:
			score += 0.15
		}
		if ch.HasStructure {
			score += 0.25
		}
		switch {
		case len(ch.Keywords) >= 4:
			score += 0.25
		case len(ch.Keywords) >= 2:
			score += 0.15
		}
		score += math.Min(0.2, math.Max(0.0, ch.ConfidenceScore)*0.2)
		total += math.Min(1.0, score)
	}
	return round4(math.Min(1.0, total/float64(len(chunks))))
}

func (c *Calculator) confidenceFromContentQuality(chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		return 0.4
	}
	var total float64
	for _, ch := range chunks {
		var score float64
		if ch.WordCount > 40 {
			score += 0.3
		}
		if ch.HasStructure {
			score += 0.3
		}
		if len(ch.Keywords) > 0 {
			score += 0.2
		}
		score += math.Min(0.2, ch.ConfidenceScore*0.2)
		total += math.Min(1.0, score)
	}
	return round4(math.Min(1.0, total/float64(len(chunks))))
}

// industryRelevance blends a per-industry multiplier with brand strength.
func (c *Calculator) industryRelevance(brandCtx *brand.Context, strength float64) float64 {
	multiplier, ok := industryRelevanceMultipliers[brandCtx.Industry]
	if !ok {
		multiplier = 0.6
	}
	return round4(clamp01(0.4 + 0.4*multiplier + 0.2*strength))
}

// amandaCrast composites length, structure, keyword, tag, and confidence
// signals into the custom content-quality heuristic.
func (c *Calculator) amandaCrast(brandName string, chunks []content.Chunk) float64 {
	if len(chunks) == 0 {
		c.fallback("amanda_crast_score", "no chunks")
		return brand.RecoveryScore(brandName)
	}

	var total float64
	for _, ch := range chunks {
		var score float64
		switch {
		case ch.WordCount >= 50 && ch.WordCount <= 150:
			score += 0.3
		case ch.WordCount > 150:
			score += 0.2
		default:
			score += 0.1
		}
		if ch.HasStructure {
			score += 0.2
		}
		if len(ch.Keywords) >= 1 {
			score += math.Min(0.2, float64(len(ch.Keywords))*0.05)
		}
		if len(ch.SemanticTags) >= 1 {
			score += math.Min(0.3, float64(len(ch.SemanticTags))*0.1)
		}
		score += ch.ConfidenceScore * 0.2
		total += math.Min(1.0, score)
	}

	avg := total / float64(len(chunks))
	return round4(clamp01(avg * 1.25))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, avg float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
