package llm

import "context"

// Provider is the single text-completion capability the pipeline needs.
// Grading, generation, decomposition and card formatting all go through it
// with different prompts and decoding settings.
type Provider interface {
	// Complete sends a system/user prompt pair and returns the model text.
	Complete(ctx context.Context, system string, user string, opts ...Option) (string, error)
}

// Embedder produces embedding vectors for retrieval and ingestion.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// WithTemperature overrides the configured sampling temperature for one call.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithMaxTokens overrides the configured completion budget for one call.
func WithMaxTokens(n int64) Option {
	return func(o *Options) { o.MaxTokens = n }
}
