package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

const (
	samplingTemperature = 0.7
	samplingTopP        = 0.9
	moodMaxTokens       = 200
)

const moodPromptTemplate = `
Analyze this song and provide:
1. The overall mood/emotion (e.g., happy, sad, energetic, calm, romantic, melancholic, angry, peaceful, nostalgic, mysterious)
2. 5-8 relevant keywords that describe the song's feeling, atmosphere, or theme
3. A brief description of the song's vibe

Song: "%s" by %s

Respond in this exact format:
MOOD: [mood]
KEYWORDS: [keyword1, keyword2, keyword3, keyword4, keyword5]
DESCRIPTION: [brief description]
`

// MoodAnalyzer infers a song's mood from its title and artist.
type MoodAnalyzer struct {
	gen ports.TextGenerator
	log hclog.Logger
}

// NewMoodAnalyzer constructs a MoodAnalyzer. A nil logger discards output.
func NewMoodAnalyzer(gen ports.TextGenerator, log hclog.Logger) *MoodAnalyzer {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &MoodAnalyzer{gen: gen, log: log}
}

// Analyze always returns a usable analysis. Generator failures yield
// domain.FallbackMood with Source set to domain.MoodFallback.
func (m *MoodAnalyzer) Analyze(ctx context.Context, songName, artistName string) domain.MoodResult {
	text, err := m.gen.Generate(ctx, ports.TextRequest{
		Prompt:      buildMoodPrompt(songName, artistName),
		Temperature: samplingTemperature,
		TopP:        samplingTopP,
		MaxTokens:   moodMaxTokens,
	})
	if err != nil {
		m.log.Warn("mood inference failed, using fallback", "song", songName, "artist", artistName, "error", err)
		return domain.MoodResult{Analysis: domain.FallbackMood(), Source: domain.MoodFallback, Err: err}
	}

	analysis := ParseMoodResponse(text)
	m.log.Debug("mood inferred", "song", songName, "mood", analysis.Mood, "keywords", analysis.Keywords)
	return domain.MoodResult{Analysis: analysis, Source: domain.MoodInferred}
}

func buildMoodPrompt(songName, artistName string) string {
	return fmt.Sprintf(moodPromptTemplate, songName, artistName)
}

// ParseMoodResponse extracts the MOOD, KEYWORDS and DESCRIPTION fields from
// model output. Each label is looked up independently; a missing label leaves
// that field at its default.
func ParseMoodResponse(text string) domain.MoodAnalysis {
	analysis := domain.MoodAnalysis{
		Mood:        "neutral",
		Keywords:    []string{"atmospheric", "moody"},
		Description: "A song with a balanced mood",
	}

	if v, ok := labelValue(text, "MOOD:"); ok {
		analysis.Mood = strings.ToLower(v)
	}
	if v, ok := labelValue(text, "KEYWORDS:"); ok {
		parts := strings.Split(strings.Trim(v, "[]"), ",")
		keywords := make([]string, 0, len(parts))
		for _, p := range parts {
			keywords = append(keywords, strings.TrimSpace(p))
		}
		analysis.Keywords = keywords
	}
	if v, ok := labelValue(text, "DESCRIPTION:"); ok {
		analysis.Description = v
	}

	return analysis
}

// labelValue returns the trimmed text between the first occurrence of label
// and the next line break (or a repeated label, whichever comes first).
func labelValue(text, label string) (string, bool) {
	_, after, found := strings.Cut(text, label)
	if !found {
		return "", false
	}
	after, _, _ = strings.Cut(after, label)
	line, _, _ := strings.Cut(after, "\n")
	return strings.TrimSpace(line), true
}
