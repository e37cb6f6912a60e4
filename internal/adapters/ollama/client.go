// Package ollama provides a text generator backed by a local Ollama server.
// It is the self-hosted alternative to the hosted language model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        hclog.Logger
}

var _ ports.TextGenerator = (*Client)(nil)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func NewClient(baseURL, model string, log hclog.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			// the first call loads the model into memory
			Timeout: 120 * time.Second,
		},
		log: log,
	}
}

// Generate runs a single non-streaming completion.
func (c *Client) Generate(ctx context.Context, in ports.TextRequest) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: in.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: in.Temperature,
			TopP:        in.TopP,
			NumPredict:  in.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed generateResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != "" {
			return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama: %s", parsed.Error)
	}
	// an empty completion is a valid answer; callers parse it to defaults
	c.log.Debug("generation finished", "model", c.model, "elapsed", time.Since(start), "chars", len(parsed.Response))
	return parsed.Response, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
