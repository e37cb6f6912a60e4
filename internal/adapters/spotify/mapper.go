package spotify

import "github.com/AnselZeng/vibe-filter/internal/core/domain"

// mapTrackToDomain flattens a Spotify track. Only the first credited artist
// is kept, and the cover is the first album image or nil.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	dt := domain.Track{
		ID:    st.ID,
		Name:  st.Name,
		Album: st.Album.Name,
	}
	if len(st.Artists) > 0 {
		dt.Artist = st.Artists[0].Name
	}
	if len(st.Album.Images) > 0 {
		cover := st.Album.Images[0].URL
		dt.CoverURL = &cover
	}
	return dt
}
