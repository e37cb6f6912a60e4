package domain

// Track is a catalog search result.
type Track struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	CoverURL *string `json:"image_url"` // nil when the album has no artwork
}
