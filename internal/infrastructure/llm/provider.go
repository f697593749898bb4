// Package llm holds the chat-completion providers the visibility pipeline
// fans queries out to.  Providers share one minimal interface; the engine
// treats every provider failure as recoverable and falls back to simulation.
package llm

import "context"

// ChatProvider issues a single-turn chat completion against one AI platform.
type ChatProvider interface {
	// Name returns the platform label used in results, logs, and metrics
	// (e.g. "anthropic", "openai", "perplexity", "simulated").
	Name() string

	// Complete sends one user prompt and returns the assistant text.
	// maxTokens bounds the response; implementations apply their own
	// default when it is <= 0.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
