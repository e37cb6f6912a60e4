package ports

import "context"

// TextRequest is a single completion request with fixed sampling parameters.
type TextRequest struct {
	Prompt      string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// TextGenerator runs a text-generation model and returns its full output,
// with any streamed fragments already joined.
type TextGenerator interface {
	Generate(ctx context.Context, req TextRequest) (string, error)
}
