package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
)

// SearchTracks runs a track search and returns results in Spotify's order.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	searchURL, err := url.Parse(fmt.Sprintf("%s/search", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	q := searchURL.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))
	searchURL.RawQuery = q.Encode()

	c.log.Debug("search request", "url", searchURL.String())

	var body searchResponse
	if err := c.get(ctx, searchURL.String(), &body); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		tracks = append(tracks, mapTrackToDomain(item))
	}
	return tracks, nil
}
