package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/BrandLens-AI/internal/domain/brand"
	"github.com/turtacn/BrandLens-AI/internal/infrastructure/embedding"
)

type fixedEncoder struct{}

func (fixedEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (fixedEncoder) Name() string { return "fixed" }

func TestChunker_SplitsOnBlankLines(t *testing.T) {
	c := NewChunker(nil, nil)
	text := "Nova Robotics builds warehouse automation arms for modern fulfillment centers.\n\n" +
		"Their product line covers picking, packing, and palletizing workflows.\n\n" +
		"short\n\n" +
		"Customers report faster throughput: reduced errors and better safety records."

	chunks := c.Chunk(context.Background(), text, "Nova Robotics", brand.IndustryTechnology)
	require.Len(t, chunks, 3, "the sub-20-char paragraph is dropped")

	first := chunks[0]
	assert.Equal(t, 10, first.WordCount)
	assert.False(t, first.HasStructure)
	assert.NotEmpty(t, first.Keywords)
	assert.InDelta(t, 10.0/50.0, first.ConfidenceScore, 1e-9)

	assert.True(t, chunks[2].HasStructure, "colon marks structure")
}

func TestChunker_EmptyInputSynthesizes(t *testing.T) {
	c := NewChunker(nil, nil)

	chunks := c.Chunk(context.Background(), "", "Nova Robotics", brand.IndustryTechnology)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Text, "Nova Robotics")
	assert.Contains(t, chunks[0].Text, "technology")

	again := c.Chunk(context.Background(), "   ", "Nova Robotics", brand.IndustryTechnology)
	assert.Equal(t, chunks, again, "synthesized content is deterministic")
}

func TestChunker_EmbeddingsAttachedWhenAvailable(t *testing.T) {
	idx := embedding.NewIndex(fixedEncoder{}, nil)
	c := NewChunker(idx, nil)

	chunks := c.Chunk(context.Background(), "Nova Robotics builds warehouse automation arms.", "Nova Robotics", brand.IndustryTechnology)
	require.Len(t, chunks, 1)
	assert.Equal(t, []float32{1, 0, 0}, chunks[0].Embedding)
}

func TestChunker_NoEmbeddingsWhenUnavailable(t *testing.T) {
	c := NewChunker(embedding.NewIndex(nil, nil), nil)
	chunks := c.Chunk(context.Background(), "Nova Robotics builds warehouse automation arms.", "Nova Robotics", brand.IndustryTechnology)
	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Embedding)
}

func TestExtractKeywords(t *testing.T) {
	text := "Robotics robotics robotics automation automation the and for arm"
	keywords := ExtractKeywords(text)
	require.NotEmpty(t, keywords)
	assert.Equal(t, "robotics", keywords[0], "most frequent first")
	assert.Equal(t, "automation", keywords[1])
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "and")
}

func TestExtractKeywords_CapTen(t *testing.T) {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliet", "kilo", "lima"}
	keywords := ExtractKeywords(strings.Join(words, " "))
	assert.Len(t, keywords, 10)
}

func TestExtractSemanticTags(t *testing.T) {
	tags := ExtractSemanticTags("Our test solutions deliver scalable secure integration for enterprise automation")
	assert.NotContains(t, tags, "test")
	assert.NotContains(t, tags, "solutions")
	assert.Contains(t, tags, "scalable")
	assert.Contains(t, tags, "automation")
	assert.LessOrEqual(t, len(tags), 15)

	// Deduplicated.
	dup := ExtractSemanticTags("automation automation automation")
	assert.Equal(t, []string{"automation"}, dup)
}

func TestSynthesizeContent_PerIndustry(t *testing.T) {
	tech := SynthesizeContent("Acme", brand.IndustryTechnology)
	assert.Contains(t, tech, "scalable")

	energy := SynthesizeContent("Acme", brand.IndustryEnergy)
	assert.Contains(t, energy, "renewable")

	assert.NotEqual(t, tech, energy)
	assert.Equal(t, tech, SynthesizeContent("Acme", brand.IndustryTechnology))
}
