package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

const (
	elementsMaxTokens = 100
	maxElements       = 6
	minElementLength  = 3
)

var (
	neonKeywords  = []string{"electronic", "synthwave", "club", "nightlife", "dance", "edm", "disco"}
	neonMoodParts = []string{"electronic", "synth", "club", "edm", "disco"}
)

var (
	defaultElements = []string{"soft atmospheric lighting", "gentle mood-appropriate decorations"}
	rockElements    = []string{"rock posters", "electric guitars", "dramatic lighting"}
	kpopElements    = []string{"K-pop posters", "colorful lights", "cute decorations"}
	moodyElements   = []string{"blue lighting", "moody atmosphere", "soft shadows"}
	genericElements = []string{"soft atmospheric lighting", "gentle mood decorations"}
)

const elementsPromptTemplate = `
Based on this song analysis, generate 5-8 specific visual elements that could be gently and subtly added to an existing image to match the song's vibe.

Song: "%s" by %s
Mood: %s
Keywords: %s
Description: %s

This is a photo editing task, NOT an image generation task. Do NOT change, redraw, or reinterpret any part of the original image. Only overlay the following elements as if using Photoshop layers. The original image must remain visually identical except for the addition of these elements.
Generate ONLY visual elements that could be gently added to an existing room/person/scene (like subtle posters, soft lighting, gentle decorations, pastel accessories, etc.).
Do NOT include abstract concepts or emotions - only concrete visual items.
Do NOT suggest 'neon lights' or similar unless the song is clearly electronic, synthwave, or club-themed.
Prefer subtle, natural, or pastel elements over bold or heavy ones. Avoid strong or overwhelming changes.
Do NOT suggest anything that would obscure, replace, or alter the main subject, animals, or people in the image. The additions should be overlays or background elements, not replacements.

Respond with ONLY a comma-separated list of visual elements, nothing else.
Example format: soft wall art, pastel throw pillows, gentle fairy lights, subtle music notes, delicate plants
`

const instructionTemplate = "Keep the original image unchanged. Gently overlay these elements to match the song's vibe: %s. " +
	"Do not redraw or reinterpret the scene. Only add subtle decorations or lighting that fit the mood: %s, %s. " +
	"Do NOT create a grid, collage, or multiple images. Only a single, unified scene."

// StyleComposer turns a mood analysis into an overlay-only edit instruction.
type StyleComposer struct {
	gen ports.TextGenerator
	log hclog.Logger
}

// NewStyleComposer constructs a StyleComposer. A nil logger discards output.
func NewStyleComposer(gen ports.TextGenerator, log hclog.Logger) *StyleComposer {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &StyleComposer{gen: gen, log: log}
}

// Compose asks the model for visual elements and folds them into the final
// instruction. It never fails: generator errors select a fallback element set.
func (s *StyleComposer) Compose(ctx context.Context, analysis domain.MoodAnalysis, songName, artistName string) domain.StylePrompt {
	neonOK := NeonAllowed(analysis)

	source := domain.ElementsGenerated
	text, err := s.gen.Generate(ctx, ports.TextRequest{
		Prompt:      buildElementsPrompt(analysis, songName, artistName),
		Temperature: samplingTemperature,
		TopP:        samplingTopP,
		MaxTokens:   elementsMaxTokens,
	})

	var elements []string
	if err != nil {
		s.log.Warn("element generation failed, using fallback set", "song", songName, "mood", analysis.Mood, "error", err)
		elements = FallbackElements(analysis)
		source = domain.ElementsFallback
	} else {
		elements = ParseElements(text, neonOK)
	}

	return domain.StylePrompt{
		Elements:    elements,
		Instruction: BuildInstruction(elements, analysis),
		Source:      source,
	}
}

// NeonAllowed reports whether the analysis reads as electronic or club music.
// Keywords must match exactly (case-insensitive); the mood only needs to
// contain one of the marker substrings.
func NeonAllowed(analysis domain.MoodAnalysis) bool {
	for _, kw := range analysis.Keywords {
		lowered := strings.ToLower(kw)
		for _, n := range neonKeywords {
			if lowered == n {
				return true
			}
		}
	}
	for _, part := range neonMoodParts {
		if strings.Contains(analysis.Mood, part) {
			return true
		}
	}
	return false
}

// ParseElements splits a comma-separated model response into at most six
// visual elements, dropping fragments and (unless neonOK) neon lighting.
func ParseElements(text string, neonOK bool) []string {
	var elements []string
	for _, raw := range strings.Split(strings.TrimSpace(text), ",") {
		elem := strings.TrimSpace(raw)
		if utf8.RuneCountInString(elem) < minElementLength {
			continue
		}
		if !neonOK && strings.Contains(strings.ToLower(elem), "neon light") {
			continue
		}
		elements = append(elements, elem)
	}

	if len(elements) > maxElements {
		elements = elements[:maxElements]
	}
	if len(elements) == 0 {
		return clone(defaultElements)
	}
	return elements
}

// FallbackElements picks a canned element set. Checks run in a fixed order
// and the first match wins.
func FallbackElements(analysis domain.MoodAnalysis) []string {
	mood := analysis.Mood
	switch {
	case strings.Contains(mood, "rock") || anyKeywordContains(analysis.Keywords, "rock"):
		return clone(rockElements)
	case strings.Contains(mood, "kpop") || anyKeywordContains(analysis.Keywords, "kpop"):
		return clone(kpopElements)
	case strings.Contains(mood, "sad") || strings.Contains(mood, "melancholic"):
		return clone(moodyElements)
	default:
		return clone(genericElements)
	}
}

// BuildInstruction renders the final prompt sent to the image model.
func BuildInstruction(elements []string, analysis domain.MoodAnalysis) string {
	return fmt.Sprintf(instructionTemplate,
		strings.Join(elements, ", "),
		analysis.Mood,
		strings.Join(analysis.Keywords, ", "),
	)
}

func buildElementsPrompt(analysis domain.MoodAnalysis, songName, artistName string) string {
	return fmt.Sprintf(elementsPromptTemplate,
		songName,
		artistName,
		analysis.Mood,
		strings.Join(analysis.Keywords, ", "),
		analysis.Description,
	)
}

func anyKeywordContains(keywords []string, needle string) bool {
	for _, kw := range keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
