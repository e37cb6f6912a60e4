package spotify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
)

// GetTrack fetches a single track by its Spotify ID.
func (c *Client) GetTrack(ctx context.Context, id string) (domain.Track, error) {
	trackURL := fmt.Sprintf("%s/tracks/%s", c.baseURL, url.PathEscape(id))

	var st spotifyTrack
	if err := c.get(ctx, trackURL, &st); err != nil {
		return domain.Track{}, err
	}
	return mapTrackToDomain(st), nil
}
