package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/AnselZeng/vibe-filter/internal/adapters/filestore"
	"github.com/AnselZeng/vibe-filter/internal/adapters/ollama"
	"github.com/AnselZeng/vibe-filter/internal/adapters/replicate"
	"github.com/AnselZeng/vibe-filter/internal/adapters/rest"
	"github.com/AnselZeng/vibe-filter/internal/adapters/spotify"
	"github.com/AnselZeng/vibe-filter/internal/config"
	"github.com/AnselZeng/vibe-filter/internal/core/ports"
	"github.com/AnselZeng/vibe-filter/internal/core/services"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		hclog.Default().Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "vibe-filter",
		Level:      hclog.LevelFromString(cfg.LogLevel),
		JSONFormat: cfg.LogJSON,
	})

	// 2. Driven adapters
	store, err := filestore.New(cfg.UploadsDir)
	if err != nil {
		logger.Error("failed to prepare uploads directory", "dir", cfg.UploadsDir, "error", err)
		os.Exit(1)
	}

	// bound token requests too; the default client has no timeout
	tokenHTTP := &http.Client{Timeout: 15 * time.Second}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, tokenHTTP)
	catalog, err := spotify.NewClientWithCredentials(tokenCtx, spotify.Credentials{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		TokenURL:     cfg.SpotifyTokenURL,
	}, cfg.SpotifyAPIURL, logger.Named("spotify"))
	if err != nil {
		logger.Error("failed to build spotify client", "error", err)
		os.Exit(1)
	}

	replicateClient := replicate.NewClient(cfg.ReplicateToken,
		replicate.WithBaseURL(cfg.ReplicateAPIURL),
		replicate.WithHTTPClient(&http.Client{Timeout: 2 * time.Minute}),
		replicate.WithPollInterval(cfg.ReplicatePollInterval),
		replicate.WithLogger(logger.Named("replicate")),
	)
	editor := replicate.NewImageEditor(replicateClient, cfg.ReplicateImageModel)

	var text ports.TextGenerator
	switch cfg.TextProvider {
	case config.ProviderOllama:
		text = ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel, logger.Named("ollama"))
	default:
		text = replicate.NewTextGenerator(replicateClient, cfg.ReplicateTextModel)
	}

	// 3. Core service
	svc := services.NewOrchestrator(catalog, text, editor, store,
		services.WithLogger(logger.Named("orchestrator")),
		services.WithSearchLimit(cfg.SearchLimit),
	)

	// 4. Driving adapter
	handler := rest.NewHandler(svc, store.Dir(), cfg.CORSOrigins, logger.Named("http"))

	// 5. Start the server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	logger.Info("api listening",
		"addr", cfg.Addr(),
		"text_provider", cfg.TextProvider,
		"uploads", store.Dir(),
		"cors_origins", cfg.CORSOrigins,
	)

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}
