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
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Image model parameters. The low strength keeps the edit close to the upload.
const (
	editStrength      = 0.1
	editGuidanceScale = 5.0
	editSteps         = 8
)

const negativePrompt = "grid, collage, multiple images, mosaic, split image, tiled, four images, 2x2, 3x3, 4x4, " +
	"duplicate, repeated, panel, comic, storyboard, frames, boxes, layout, montage, compilation, side by side, " +
	"before and after, comparison, completely different image, new composition, change structure, blurry, " +
	"low quality, distorted, different scene, alter original objects, change background, modify existing elements, " +
	"replace main subject, obscure main subject, border, frame, watermark, text, caption"

// Orchestrator sequences the catalog, mood, style and image steps of a request.
type Orchestrator struct {
	catalog ports.CatalogProvider
	mood    *MoodAnalyzer
	style   *StyleComposer
	editor  ports.ImageEditor
	store   ports.ImageStore
	log     hclog.Logger

	searchLimit int
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithLogger sets the logger used by the orchestrator and its sub-steps.
func WithLogger(log hclog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithSearchLimit sets the result count used when a search omits a limit.
func WithSearchLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 && n <= MaxSearchLimit {
			o.searchLimit = n
		}
	}
}

// NewOrchestrator constructs an Orchestrator. The text generator backs both
// mood inference and visual element generation.
func NewOrchestrator(catalog ports.CatalogProvider, text ports.TextGenerator, editor ports.ImageEditor, store ports.ImageStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:     catalog,
		editor:      editor,
		store:       store,
		log:         hclog.NewNullLogger(),
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.mood = NewMoodAnalyzer(text, o.log.Named("mood"))
	o.style = NewStyleComposer(text, o.log.Named("style"))
	return o
}

// Search returns catalog tracks for query in catalog (relevance) order.
// A limit of zero selects the configured default.
func (o *Orchestrator) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalid(nil, "query is required")
	}
	if limit == 0 {
		limit = o.searchLimit
	}
	if limit < 1 || limit > MaxSearchLimit {
		return nil, invalid(nil, "limit must be between 1 and %d", MaxSearchLimit)
	}

	tracks, err := o.catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, &CatalogError{Op: "search", Err: err}
	}
	return tracks, nil
}

// GenerateInput is one uploaded image plus the chosen track.
type GenerateInput struct {
	Filename string
	Size     int64
	Data     []byte
	TrackID  string
}

// Generate validates the upload, stores it, and produces the stylized copy.
// Every validation runs before any remote call. If the image step fails the
// stored original is removed and the error is a *GenerationError.
func (o *Orchestrator) Generate(ctx context.Context, in GenerateInput) (domain.GenerationResult, error) {
	ext, err := domain.UploadExtension(in.Filename)
	if err != nil {
		return domain.GenerationResult{}, invalid(err, "Invalid file type. Allowed: %s", strings.Join(domain.AllowedExtensions, ", "))
	}
	size := in.Size
	if n := int64(len(in.Data)); n > size {
		size = n
	}
	if err := domain.ValidateUploadSize(size); err != nil {
		return domain.GenerationResult{}, invalid(err, "File too large. Maximum 10MB allowed.")
	}
	if err := domain.ValidateTrackID(in.TrackID); err != nil {
		return domain.GenerationResult{}, invalid(err, "Invalid track ID format")
	}
	contentType, sniffed := mediaType(in.Data, ext)
	if !sniffed {
		o.log.Debug("upload header not recognised, using extension", "ext", ext, "content_type", contentType)
	}

	track, err := o.catalog.GetTrack(ctx, in.TrackID)
	if err != nil {
		return domain.GenerationResult{}, &CatalogError{Op: "track", Err: err}
	}

	originalName, err := o.store.Save("original", ext, in.Data)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("service: failed to store upload: %w", err)
	}

	mood := o.mood.Analyze(ctx, track.Name, track.Artist)
	style := o.style.Compose(ctx, mood.Analysis, track.Name, track.Artist)
	o.log.Info("composed style prompt",
		"track", in.TrackID,
		"mood_source", mood.Source,
		"element_source", style.Source,
		"elements", style.Elements,
	)

	stylizedName, err := o.renderStylized(ctx, style.Instruction, in.Data, contentType)
	if err != nil {
		if rmErr := o.store.Remove(originalName); rmErr != nil {
			o.log.Warn("failed to remove original upload", "file", originalName, "error", rmErr)
		}
		genErr := ClassifyGenerationError(err)
		o.log.Error("image generation failed", "track", in.TrackID, "status", genErr.Status, "error", err)
		return domain.GenerationResult{}, genErr
	}

	return domain.GenerationResult{
		OriginalImageURL: o.store.URL(originalName),
		StylizedImageURL: o.store.URL(stylizedName),
		SongInfo: domain.SongInfo{
			Name:     track.Name,
			Artist:   track.Artist,
			Analysis: mood.Analysis,
		},
	}, nil
}

// renderStylized runs the image model and writes its output. Nothing is
// written unless the edit succeeded.
func (o *Orchestrator) renderStylized(ctx context.Context, instruction string, image []byte, contentType string) (string, error) {
	edited, err := o.editor.EditImage(ctx, ports.ImageEditRequest{
		Prompt:         instruction,
		NegativePrompt: negativePrompt,
		Image:          image,
		ContentType:    contentType,
		Strength:       editStrength,
		GuidanceScale:  editGuidanceScale,
		Steps:          editSteps,
	})
	if err != nil {
		return "", err
	}
	return o.store.Save("stylized", ".png", edited)
}
