package ports

import (
	"context"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
)

// CatalogProvider looks up songs in the remote music catalog.
type CatalogProvider interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error)
	GetTrack(ctx context.Context, id string) (domain.Track, error)
}
