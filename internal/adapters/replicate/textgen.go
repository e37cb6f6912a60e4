package replicate

import (
	"context"
	"strings"

	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

// TextGenerator runs a hosted language model.
type TextGenerator struct {
	client *Client
	model  string
}

var _ ports.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator binds a client to a model reference of the form
// "owner/name" or "owner/name:version".
func NewTextGenerator(client *Client, model string) *TextGenerator {
	return &TextGenerator{client: client, model: model}
}

// Generate returns the concatenated output tokens.
func (g *TextGenerator) Generate(ctx context.Context, req ports.TextRequest) (string, error) {
	pred, err := g.client.run(ctx, g.model, textInput{
		Prompt:       req.Prompt,
		Temperature:  req.Temperature,
		MaxNewTokens: req.MaxTokens,
		TopP:         req.TopP,
	})
	if err != nil {
		return "", err
	}
	parts, err := pred.outputStrings()
	if err != nil {
		return "", err
	}
	return strings.Join(parts, ""), nil
}
