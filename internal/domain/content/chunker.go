package content

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/embedding"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/logging"
)

// minParagraphChars is the shortest paragraph worth keeping as a chunk.
const minParagraphChars = 20

// stopWords are dropped during keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {},
}

// genericBrandTerms are excluded from semantic tags; they carry no signal
// about what the content is actually about.
var genericBrandTerms = map[string]struct{}{
	"test": {}, "brand": {}, "solutions": {}, "company": {}, "business": {},
}

// structureMarkers flag chunks whose text carries list-like or definitional
// formatting, which AI answer surfaces favor.
var structureMarkers = []string{":", "-", "•", "1.", "2."}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// Chunker splits raw brand text into annotated chunks, optionally attaching
// embeddings through the configured index.
type Chunker struct {
	index  *embedding.Index
	logger logging.Logger
}

// NewChunker builds a Chunker.  index may be nil or unavailable; chunks then
// simply carry no embeddings.
func NewChunker(index *embedding.Index, logger logging.Logger) *Chunker {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Chunker{index: index, logger: logger.Named("chunker")}
}

// Chunk splits text on blank-line boundaries into annotated chunks.  When
// text is empty it synthesizes a deterministic brand paragraph instead, so
// every analysis has at least some content to score.  An empty result after
// filtering is a valid state, not an error.
func (c *Chunker) Chunk(ctx context.Context, text, brandName string, industry brand.Industry) []Chunk {
	if strings.TrimSpace(text) == "" {
		text = SynthesizeContent(brandName, industry)
	}

	paragraphs := splitParagraphs(text)
	chunks := make([]Chunk, 0, len(paragraphs))
	for _, para := range paragraphs {
		if len(para) < minParagraphChars {
			continue
		}
		chunks = append(chunks, c.annotate(para))
	}

	c.attachEmbeddings(ctx, chunks)
	return chunks
}

func (c *Chunker) annotate(para string) Chunk {
	wordCount := len(strings.Fields(para))
	return Chunk{
		Text:            para,
		WordCount:       wordCount,
		Keywords:        ExtractKeywords(para),
		SemanticTags:    ExtractSemanticTags(para),
		HasStructure:    hasStructure(para),
		ConfidenceScore: min1(float64(wordCount) / 50.0),
	}
}

func (c *Chunker) attachEmbeddings(ctx context.Context, chunks []Chunk) {
	if !c.index.Available() || len(chunks) == 0 {
		return
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors := c.index.Encode(ctx, texts)
	if vectors == nil {
		c.logger.Debug("chunks annotated without embeddings", logging.Int("chunks", len(chunks)))
		return
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
}

// ExtractKeywords returns the top-10 most frequent alphabetic tokens of
// length >= 3 after stop-word removal.  Order is frequency-descending with
// first-occurrence order breaking ties, so the result is deterministic.
func ExtractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			firstSeen[w] = i
		}
		counts[w]++
	}

	keywords := make([]string, 0, len(counts))
	for w := range counts {
		keywords = append(keywords, w)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return firstSeen[keywords[i]] < firstSeen[keywords[j]]
	})

	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords
}

// ExtractSemanticTags returns up to 15 deduplicated content-bearing tokens,
// excluding stop words and generic brand terms.  A lightweight suffix filter
// stands in for part-of-speech tagging: tokens are kept when they look
// noun- or adjective-like (or are simply long enough to carry meaning).
func ExtractSemanticTags(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	seen := make(map[string]struct{})
	tags := make([]string, 0, 15)
	for _, w := range words {
		if len(tags) == 15 {
			break
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, generic := genericBrandTerms[w]; generic {
			continue
		}
		if !contentBearing(w) {
			continue
		}
		seen[w] = struct{}{}
		tags = append(tags, w)
	}
	return tags
}

// contentBearing approximates a noun/adjective check without a POS tagger.
func contentBearing(w string) bool {
	if len(w) >= 5 {
		return true
	}
	for _, suffix := range []string{"ion", "ity", "ness", "ment", "ive", "ous", "ful", "able", "al", "ic", "er", "or"} {
		if strings.HasSuffix(w, suffix) {
			return true
		}
	}
	return false
}

func hasStructure(text string) bool {
	for _, marker := range structureMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func splitParagraphs(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

// SynthesizeContent produces the deterministic placeholder paragraph used
// when a brand has no content sample.  No external calls are made.
func SynthesizeContent(brandName string, industry brand.Industry) string {
	feats := strings.Join(brand.SyntheticDifferentiators(industry), ", ")
	return fmt.Sprintf(
		"%s operates in the %s industry. Our focus includes %s. "+
			"We provide answers to common questions such as what %s is, how it helps, and why it stands out.",
		brandName, industry, feats, brandName)
}

func min1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
