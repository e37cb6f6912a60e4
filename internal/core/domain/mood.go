package domain

// MoodAnalysis is the mood, keywords and one-line description inferred for a song.
// Mood is free-form lowercase text; no vocabulary is enforced.
type MoodAnalysis struct {
	Mood        string   `json:"mood"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

// MoodSource records where a MoodAnalysis came from.
type MoodSource string

const (
	MoodInferred MoodSource = "inferred"
	MoodFallback MoodSource = "fallback"
)

// MoodResult wraps an analysis with its provenance. Err is set only when
// Source is MoodFallback and holds the failure that triggered it.
type MoodResult struct {
	Analysis MoodAnalysis
	Source   MoodSource
	Err      error
}

// FallbackMood returns the analysis used when inference fails outright.
func FallbackMood() MoodAnalysis {
	return MoodAnalysis{
		Mood:        "neutral",
		Keywords:    []string{"atmospheric", "moody", "balanced"},
		Description: "A song with a balanced mood",
	}
}
