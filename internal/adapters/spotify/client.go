package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	requestTimeout = 15 * time.Second
)

// Client is an HTTP client for the Spotify Web API catalog endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        hclog.Logger
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// Credentials are the application credentials for the client-credentials flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewClient constructs a Spotify client. httpClient must already attach
// authorization; NewClientWithCredentials does that for production use.
func NewClient(httpClient *http.Client, baseURL string, log hclog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// NewClientWithCredentials builds a client whose requests carry an app token
// obtained (and refreshed) through the OAuth2 client-credentials grant.
// Token requests use the *http.Client stored in ctx under oauth2.HTTPClient,
// if any.
func NewClientWithCredentials(ctx context.Context, creds Credentials, baseURL string, log hclog.Logger) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("spotify adapter: client id and secret are required")
	}
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
	}
	hc := cfg.Client(ctx)
	hc.Timeout = requestTimeout
	return NewClient(hc, baseURL, log), nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := decodeJSON(resp.Body, out); err != nil {
		return fmt.Errorf("spotify adapter: decode error: %w", err)
	}
	return nil
}
