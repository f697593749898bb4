package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct {
	vectors [][]float32
	err     error
}

func (s *stubEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func (s *stubEncoder) Name() string { return "stub" }

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"nil_a", nil, []float32{1, 0}, 0.0},
		{"mismatched", []float32{1, 0}, []float32{1}, 0.0},
		{"zero_norm", []float32{0, 0}, []float32{1, 0}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestClampUnit(t *testing.T) {
	assert.Equal(t, 0.0, ClampUnit(-0.5))
	assert.Equal(t, 1.0, ClampUnit(1.5))
	assert.Equal(t, 0.42, ClampUnit(0.42))
}

func TestIndex_Available(t *testing.T) {
	var nilIdx *Index
	assert.False(t, nilIdx.Available())
	assert.False(t, NewIndex(nil, nil).Available())
	assert.True(t, NewIndex(&stubEncoder{}, nil).Available())
}

func TestIndex_Encode(t *testing.T) {
	t.Run("unavailable_returns_nil", func(t *testing.T) {
		idx := NewIndex(nil, nil)
		assert.Nil(t, idx.Encode(context.Background(), []string{"a"}))
	})

	t.Run("backend_error_returns_nil", func(t *testing.T) {
		idx := NewIndex(&stubEncoder{err: fmt.Errorf("down")}, nil)
		assert.Nil(t, idx.Encode(context.Background(), []string{"a"}))
	})

	t.Run("mismatched_batch_discarded", func(t *testing.T) {
		idx := NewIndex(&stubEncoder{vectors: [][]float32{{1}}}, nil)
		assert.Nil(t, idx.Encode(context.Background(), []string{"a", "b"}))
	})

	t.Run("success", func(t *testing.T) {
		want := [][]float32{{1, 0}, {0, 1}}
		idx := NewIndex(&stubEncoder{vectors: want}, nil)
		assert.Equal(t, want, idx.Encode(context.Background(), []string{"a", "b"}))
	})
}

func TestOllamaEncoder_Encode(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, `{"embedding":[0.1,0.2,0.3]}`)
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(WithOllamaBaseURL(srv.URL), WithOllamaModel("test-model"))
	vectors, err := enc.Encode(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[0])
	assert.Equal(t, 2, calls)
	assert.Equal(t, "ollama/test-model", enc.Name())
}

func TestOllamaEncoder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(WithOllamaBaseURL(srv.URL))
	_, err := enc.Encode(context.Background(), []string{"hello"})
	assert.Error(t, err)
}

func TestOllamaEncoder_EmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"embedding":[]}`)
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(WithOllamaBaseURL(srv.URL))
	_, err := enc.Encode(context.Background(), []string{"hello"})
	assert.Error(t, err)
}
