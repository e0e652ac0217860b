package llm

import (
	"context"
)

// Client generates a completion for a prompt. Implementations wrap one
// provider SDK each; callers treat the model as an opaque collaborator.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient turns text into a vector for similarity search. Not
// every provider supports it; the factory returns nil when unsupported.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
