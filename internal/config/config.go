// Package config loads runtime settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderReplicate = "replicate"
	ProviderOllama    = "ollama"
)

// DotEnvFiles are read in order when present. Variables already set in the
// process environment win over file values.
var DotEnvFiles = []string{".env", "../.env"}

// Config holds all runtime configuration.
type Config struct {
	// Server
	Host        string
	Port        int
	CORSOrigins []string
	UploadsDir  string
	SearchLimit int

	// Spotify catalog
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyAPIURL       string
	SpotifyTokenURL     string

	// Replicate models
	ReplicateToken        string
	ReplicateAPIURL       string
	ReplicateTextModel    string
	ReplicateImageModel   string
	ReplicatePollInterval time.Duration

	// Text generation backend: "replicate" or "ollama"
	TextProvider string
	OllamaHost   string
	OllamaModel  string

	// Logging
	LogLevel string
	LogJSON  bool
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads any .env files and then the environment.
func Load() (Config, error) {
	if err := loadDotEnv(DotEnvFiles...); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment and validates it.
func FromEnv() (Config, error) {
	cfg := Config{
		Host:        envStr("BACKEND_HOST", "0.0.0.0"),
		Port:        envInt("BACKEND_PORT", 8000),
		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		UploadsDir:  envStr("UPLOADS_DIR", "uploads"),
		SearchLimit: envInt("SEARCH_LIMIT", 10),

		SpotifyClientID:     envStr("SPOTIFY_CLIENT_ID", os.Getenv("NEXT_PUBLIC_SPOTIFY_CLIENT_ID")),
		SpotifyClientSecret: envStr("SPOTIFY_CLIENT_SECRET", os.Getenv("NEXT_PUBLIC_SPOTIFY_CLIENT_SECRET")),
		SpotifyAPIURL:       envStr("SPOTIFY_API_URL", "https://api.spotify.com/v1"),
		SpotifyTokenURL:     envStr("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),

		ReplicateToken:        envStr("REPLICATE_API_TOKEN", ""),
		ReplicateAPIURL:       envStr("REPLICATE_API_URL", "https://api.replicate.com/v1"),
		ReplicateTextModel:    envStr("REPLICATE_TEXT_MODEL", "meta/llama-2-70b-chat:02e509c789964a7ea8736978a43525956ef40397be9033abf9fd2badfe68c9e3"),
		ReplicateImageModel:   envStr("REPLICATE_IMAGE_MODEL", "ai-forever/kandinsky-2.2:ea1addaab376f4dc227f5368bbd8eff901820fd1cc14ed8cad63b29249e9d463"),
		ReplicatePollInterval: time.Duration(envInt("REPLICATE_POLL_INTERVAL_MS", 1000)) * time.Millisecond,

		TextProvider: strings.ToLower(envStr("TEXTGEN_PROVIDER", ProviderReplicate)),
		OllamaHost:   envStr("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  envStr("OLLAMA_MODEL", "llama3"),

		LogLevel: envStr("LOG_LEVEL", "info"),
		LogJSON:  envBool("LOG_JSON", false),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.SpotifyClientID == "" || c.SpotifyClientSecret == "" {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set"))
	}
	if c.ReplicateToken == "" {
		errs = append(errs, errors.New("REPLICATE_API_TOKEN must be set"))
	}
	if c.TextProvider != ProviderReplicate && c.TextProvider != ProviderOllama {
		errs = append(errs, fmt.Errorf("TEXTGEN_PROVIDER must be %q or %q, got %q", ProviderReplicate, ProviderOllama, c.TextProvider))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("BACKEND_PORT out of range: %d", c.Port))
	}
	if c.SearchLimit < 1 || c.SearchLimit > 50 {
		errs = append(errs, fmt.Errorf("SEARCH_LIMIT must be between 1 and 50, got %d", c.SearchLimit))
	}
	if c.ReplicatePollInterval <= 0 {
		errs = append(errs, errors.New("REPLICATE_POLL_INTERVAL_MS must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func loadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
