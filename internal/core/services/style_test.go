package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
)

func TestNeonAllowed(t *testing.T) {
	tests := []struct {
		name     string
		analysis domain.MoodAnalysis
		want     bool
	}{
		{name: "disco keyword", analysis: domain.MoodAnalysis{Mood: "happy", Keywords: []string{"funky", "disco"}}, want: true},
		{name: "keyword match ignores case", analysis: domain.MoodAnalysis{Mood: "happy", Keywords: []string{"EDM"}}, want: true},
		{name: "keyword must match whole", analysis: domain.MoodAnalysis{Mood: "happy", Keywords: []string{"discotheque"}}, want: false},
		{name: "synth in mood", analysis: domain.MoodAnalysis{Mood: "synthetic dream", Keywords: []string{"calm"}}, want: true},
		{name: "club in mood", analysis: domain.MoodAnalysis{Mood: "nightclub", Keywords: nil}, want: true},
		{name: "melancholic without markers", analysis: domain.MoodAnalysis{Mood: "melancholic", Keywords: []string{"rain", "grey"}}, want: false},
		{name: "nightlife only counts as keyword", analysis: domain.MoodAnalysis{Mood: "nightlife", Keywords: []string{"calm"}}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NeonAllowed(tc.analysis))
		})
	}
}

func TestParseElements(t *testing.T) {
	t.Run("filters short fragments", func(t *testing.T) {
		got := ParseElements(" soft wall art, ok, , pastel pillows ,fairy lights\n", false)
		assert.Equal(t, []string{"soft wall art", "pastel pillows", "fairy lights"}, got)
	})

	t.Run("drops neon lights when gate closed", func(t *testing.T) {
		got := ParseElements("Neon Lights, soft lamp, pink NEON LIGHTING strip", false)
		assert.Equal(t, []string{"soft lamp"}, got)
	})

	t.Run("keeps neon lights when gate open", func(t *testing.T) {
		got := ParseElements("neon lights, soft lamp", true)
		assert.Equal(t, []string{"neon lights", "soft lamp"}, got)
	})

	t.Run("truncates ten to six", func(t *testing.T) {
		text := "one a, two b, three c, four d, five e, six f, seven g, eight h, nine i, ten j"
		got := ParseElements(text, false)
		require.Len(t, got, 6)
		assert.Equal(t, "one a", got[0])
		assert.Equal(t, "six f", got[5])
	})

	t.Run("empty falls back to default pair", func(t *testing.T) {
		got := ParseElements(" , ab, neon lights", false)
		assert.Equal(t, []string{"soft atmospheric lighting", "gentle mood-appropriate decorations"}, got)
	})
}

func TestFallbackElements(t *testing.T) {
	tests := []struct {
		name     string
		analysis domain.MoodAnalysis
		want     []string
	}{
		{
			name:     "rock wins over kpop",
			analysis: domain.MoodAnalysis{Mood: "punk rock", Keywords: []string{"kpop", "idol"}},
			want:     []string{"rock posters", "electric guitars", "dramatic lighting"},
		},
		{
			name:     "rock keyword",
			analysis: domain.MoodAnalysis{Mood: "angry", Keywords: []string{"Hard Rock"}},
			want:     []string{"rock posters", "electric guitars", "dramatic lighting"},
		},
		{
			name:     "kpop keyword",
			analysis: domain.MoodAnalysis{Mood: "happy", Keywords: []string{"KPOP"}},
			want:     []string{"K-pop posters", "colorful lights", "cute decorations"},
		},
		{
			name:     "sad mood",
			analysis: domain.MoodAnalysis{Mood: "sad", Keywords: []string{"rain"}},
			want:     []string{"blue lighting", "moody atmosphere", "soft shadows"},
		},
		{
			name:     "sad keyword alone is not enough",
			analysis: domain.MoodAnalysis{Mood: "calm", Keywords: []string{"sad"}},
			want:     []string{"soft atmospheric lighting", "gentle mood decorations"},
		},
		{
			name:     "melancholic mood",
			analysis: domain.MoodAnalysis{Mood: "melancholic", Keywords: nil},
			want:     []string{"blue lighting", "moody atmosphere", "soft shadows"},
		},
		{
			name:     "generic",
			analysis: domain.FallbackMood(),
			want:     []string{"soft atmospheric lighting", "gentle mood decorations"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FallbackElements(tc.analysis))
		})
	}
}

func TestBuildInstruction(t *testing.T) {
	analysis := domain.MoodAnalysis{Mood: "calm", Keywords: []string{"lake", "dawn"}}
	got := BuildInstruction([]string{"soft lamp", "pastel pillows"}, analysis)

	want := "Keep the original image unchanged. Gently overlay these elements to match the song's vibe: soft lamp, pastel pillows. " +
		"Do not redraw or reinterpret the scene. Only add subtle decorations or lighting that fit the mood: calm, lake, dawn. " +
		"Do NOT create a grid, collage, or multiple images. Only a single, unified scene."
	assert.Equal(t, want, got)
}

func TestStyleComposer_Compose(t *testing.T) {
	t.Run("generated elements with neon filtered", func(t *testing.T) {
		gen := &mockText{responses: []string{"neon lights, rain-streaked window, soft desk lamp"}}
		analysis := domain.MoodAnalysis{Mood: "melancholic", Keywords: []string{"rain"}, Description: "Grey."}

		got := NewStyleComposer(gen, nil).Compose(context.Background(), analysis, "Song", "Artist")

		assert.Equal(t, domain.ElementsGenerated, got.Source)
		assert.Equal(t, []string{"rain-streaked window", "soft desk lamp"}, got.Elements)
		assert.Contains(t, got.Instruction, "rain-streaked window, soft desk lamp")
		assert.NotContains(t, strings.ToLower(got.Instruction), "neon")

		require.Len(t, gen.requests, 1)
		req := gen.requests[0]
		assert.Equal(t, 100, req.MaxTokens)
		assert.Equal(t, 0.7, req.Temperature)
		assert.Equal(t, 0.9, req.TopP)
		assert.Contains(t, req.Prompt, "Mood: melancholic")
		assert.Contains(t, req.Prompt, "Keywords: rain")
	})

	t.Run("generator failure selects fallback set", func(t *testing.T) {
		gen := &mockText{errs: []error{errors.New("timeout")}}
		analysis := domain.MoodAnalysis{Mood: "rock", Keywords: []string{"kpop"}}

		got := NewStyleComposer(gen, nil).Compose(context.Background(), analysis, "Song", "Artist")

		assert.Equal(t, domain.ElementsFallback, got.Source)
		assert.Equal(t, []string{"rock posters", "electric guitars", "dramatic lighting"}, got.Elements)
		assert.Contains(t, got.Instruction, "rock posters, electric guitars, dramatic lighting")
	})
}
