package domain

// SongInfo describes the song a generation was inspired by.
type SongInfo struct {
	Name     string       `json:"name"`
	Artist   string       `json:"artist"`
	Analysis MoodAnalysis `json:"analysis"`
}

// GenerationResult is returned once per successful generate request. The
// server keeps nothing but the two files the URLs point at.
type GenerationResult struct {
	OriginalImageURL string   `json:"original_image_url"`
	StylizedImageURL string   `json:"stylized_image_url"`
	SongInfo         SongInfo `json:"song_info"`
}
