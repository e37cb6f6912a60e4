package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
)

const (
	DefaultBaseURL      = "https://api.replicate.com/v1"
	DefaultPollInterval = time.Second

	maxErrorBody = 64 << 10
)

// Client runs predictions against the Replicate HTTP API. A prediction is
// created with "Prefer: wait" and polled until it reaches a terminal status.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	pollInterval time.Duration
	log          hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func WithLogger(log hclog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient constructs a Client authenticated with an API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient:   http.DefaultClient,
		baseURL:      DefaultBaseURL,
		token:        token,
		pollInterval: DefaultPollInterval,
		log:          hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// splitModelRef separates "owner/name:version" into its parts. The version
// is empty for a bare "owner/name" reference.
func splitModelRef(ref string) (model, version string) {
	model, version, _ = strings.Cut(ref, ":")
	return model, version
}

// run creates a prediction for the referenced model and blocks until it
// succeeds, fails, is canceled, or ctx ends.
func (c *Client) run(ctx context.Context, modelRef string, input any) (*prediction, error) {
	model, version := splitModelRef(modelRef)
	if model == "" {
		return nil, fmt.Errorf("replicate: empty model reference")
	}

	createURL := c.baseURL + "/predictions"
	body := predictionRequest{Version: version, Input: input}
	if version == "" {
		createURL = fmt.Sprintf("%s/models/%s/predictions", c.baseURL, model)
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, createURL, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	var pred prediction
	if err := c.do(req, &pred); err != nil {
		return nil, err
	}
	c.log.Debug("prediction created", "id", pred.ID, "model", model, "status", pred.Status)

	for !pred.terminal() {
		if err := c.sleep(ctx); err != nil {
			return nil, err
		}
		if err := c.refresh(ctx, &pred); err != nil {
			return nil, err
		}
	}

	switch pred.Status {
	case StatusFailed:
		return nil, fmt.Errorf("replicate: prediction %s failed: %s", pred.ID, pred.errorText())
	case StatusCanceled:
		return nil, fmt.Errorf("replicate: prediction %s canceled", pred.ID)
	}
	c.log.Debug("prediction succeeded", "id", pred.ID)
	return &pred, nil
}

func (c *Client) refresh(ctx context.Context, pred *prediction) error {
	getURL := pred.URLs.Get
	if getURL == "" {
		getURL = fmt.Sprintf("%s/predictions/%s", c.baseURL, pred.ID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return fmt.Errorf("replicate: failed to create poll request: %w", err)
	}
	return c.do(req, pred)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("replicate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("replicate: decode error: %w", err)
	}
	return nil
}

// download fetches an output file. Output URLs are pre-signed, so no
// authorization header is sent.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to create download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("replicate: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read download: %w", err)
	}
	return data, nil
}

func (c *Client) sleep(ctx context.Context) error {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("replicate: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Detail != "" {
		return fmt.Errorf("replicate: status %d: %s", resp.StatusCode, ae.Detail)
	}
	msg := strings.Join(strings.Fields(string(body)), " ")
	if msg == "" {
		return fmt.Errorf("replicate: status %d", resp.StatusCode)
	}
	msg = truncate(msg, 200)
	return fmt.Errorf("replicate: status %d: %s", resp.StatusCode, msg)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
