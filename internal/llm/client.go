package llm

import (
	"context"
)

// Client is the narrow contract the extraction fallback needs from a
// generative-model provider. No session state is kept between calls.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateJSON asks the provider for a JSON-object response when it
	// supports a structured output mode, and otherwise behaves like
	// Generate. Callers still parse defensively either way.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
