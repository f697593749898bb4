// Package embedding wraps an optional text-embedding backend behind a
// capability-checked index.  Every consumer must tolerate the backend being
// absent: Encode degrades to an error the caller recovers from, and the
// similarity helpers never panic on degenerate vectors.
package embedding

import (
	"context"
	"math"

	"github.com/turtacn/BrandLens-AI/internal/infrastructure/monitoring/logging"
)

// Encoder converts text into dense vectors.  Implementations are expected to
// return one vector per input string, in input order.
type Encoder interface {
	// Encode embeds each input string.  A failed call returns a nil slice
	// and an error; partial results are never returned.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the backend for logging and metric labels.
	Name() string
}

// Index is the optional similarity index handed to the analysis pipeline.
// A nil Encoder yields an unavailable Index; callers check Available() and
// take their documented fallback path instead of erroring.
type Index struct {
	encoder Encoder
	logger  logging.Logger
}

// NewIndex wraps an Encoder.  Pass a nil encoder to build an explicitly
// unavailable index, which is the normal degraded-mode construction.
func NewIndex(encoder Encoder, logger logging.Logger) *Index {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Index{encoder: encoder, logger: logger.Named("embedding")}
}

// Available reports whether an embedding backend is configured.  This is the
// capability flag every metric consults before choosing its data-driven path.
func (i *Index) Available() bool {
	return i != nil && i.encoder != nil
}

// Encode embeds the given texts.  On an unavailable index or backend failure
// it returns nil and logs at WARN; it never panics and callers treat nil as
// "no embeddings".
func (i *Index) Encode(ctx context.Context, texts []string) [][]float32 {
	if !i.Available() || len(texts) == 0 {
		return nil
	}
	vectors, err := i.encoder.Encode(ctx, texts)
	if err != nil {
		i.logger.Warn("embedding backend failed, continuing without vectors",
			logging.String("backend", i.encoder.Name()),
			logging.Int("texts", len(texts)),
			logging.Err(err))
		return nil
	}
	if len(vectors) != len(texts) {
		i.logger.Warn("embedding backend returned mismatched batch, discarding",
			logging.String("backend", i.encoder.Name()),
			logging.Int("want", len(texts)),
			logging.Int("got", len(vectors)))
		return nil
	}
	return vectors
}

// Similarity returns the cosine similarity of two vectors in [-1, 1].
// Degenerate inputs (nil, mismatched length, zero norm) yield 0.0 rather than
// an error; callers using the value as a probability-like signal clamp it
// with ClampUnit afterwards.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ClampUnit maps a similarity into [0,1].  Negative cosine similarity is
// treated as "no relevance" (clamped to 0) rather than scaled, per the
// engine's documented simplification.
func ClampUnit(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

// Norm returns the Euclidean norm of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
