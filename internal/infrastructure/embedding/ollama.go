package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/BrandLens-AI/pkg/errors"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "nomic-embed-text"
	defaultOllamaTimeout = 30 * time.Second
)

// OllamaEncoder embeds text through an Ollama-compatible HTTP endpoint.
// The /api/embeddings route accepts one prompt per request, so batches are
// issued sequentially; batch sizes here are small (paragraph chunks).
type OllamaEncoder struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption customizes an OllamaEncoder.
type OllamaOption func(*OllamaEncoder)

// WithOllamaBaseURL overrides the endpoint base URL.
func WithOllamaBaseURL(url string) OllamaOption {
	return func(e *OllamaEncoder) {
		if url != "" {
			e.baseURL = url
		}
	}
}

// WithOllamaModel overrides the embedding model name.
func WithOllamaModel(model string) OllamaOption {
	return func(e *OllamaEncoder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithOllamaHTTPClient overrides the HTTP client, mainly for tests.
func WithOllamaHTTPClient(c *http.Client) OllamaOption {
	return func(e *OllamaEncoder) {
		if c != nil {
			e.client = c
		}
	}
}

// NewOllamaEncoder builds an encoder against a local or remote Ollama server.
func NewOllamaEncoder(opts ...OllamaOption) *OllamaEncoder {
	e := &OllamaEncoder{
		baseURL: defaultOllamaBaseURL,
		model:   defaultOllamaModel,
		client:  &http.Client{Timeout: defaultOllamaTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Encoder.
func (e *OllamaEncoder) Name() string { return "ollama/" + e.model }

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Encode implements Encoder.  It fails the whole batch on the first transport
// or decode error so callers never see partial results.
func (e *OllamaEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (e *OllamaEncoder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeProvider, "marshal embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeProvider, "build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Provider("embedding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Provider(fmt.Sprintf("embedding endpoint returned %d: %s", resp.StatusCode, payload), nil)
	}

	var decoded ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, errors.CodeProvider, "decode embedding response")
	}
	if len(decoded.Embedding) == 0 {
		return nil, errors.Provider("embedding endpoint returned an empty vector", nil)
	}
	return decoded.Embedding, nil
}
