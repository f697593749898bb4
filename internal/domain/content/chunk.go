// Package content turns raw brand text into feature-annotated chunks the
// metric calculators consume.  Chunks live only for the duration of one
// analysis call and are never persisted.
package content

// Chunk is a paragraph-sized unit of brand content with extracted
// structural, keyword, and embedding features.
type Chunk struct {
	Text         string    `json:"text"`
	WordCount    int       `json:"word_count"`
	Embedding    []float32 `json:"embedding,omitempty"`
	Keywords     []string  `json:"keywords"`
	SemanticTags []string  `json:"semantic_tags"`
	HasStructure bool      `json:"has_structure"`
	// ConfidenceScore grows with paragraph length and saturates at 1.0
	// around 50 words.
	ConfidenceScore float64 `json:"confidence_score"`
}
