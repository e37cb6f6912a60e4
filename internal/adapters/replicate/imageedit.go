package replicate

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

// ImageEditor runs a hosted image-to-image model.
type ImageEditor struct {
	client *Client
	model  string
}

var _ ports.ImageEditor = (*ImageEditor)(nil)

func NewImageEditor(client *Client, model string) *ImageEditor {
	return &ImageEditor{client: client, model: model}
}

// EditImage uploads the source image inline as a data URI and downloads the
// first output file.
func (e *ImageEditor) EditImage(ctx context.Context, req ports.ImageEditRequest) ([]byte, error) {
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	pred, err := e.client.run(ctx, e.model, imageInput{
		Prompt:            req.Prompt,
		Image:             dataURI(contentType, req.Image),
		Strength:          req.Strength,
		GuidanceScale:     req.GuidanceScale,
		NumInferenceSteps: req.Steps,
		NegativePrompt:    req.NegativePrompt,
	})
	if err != nil {
		return nil, err
	}

	urls, err := pred.outputStrings()
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 || urls[0] == "" {
		return nil, fmt.Errorf("replicate: prediction %s returned no output", pred.ID)
	}
	return e.client.download(ctx, urls[0])
}

func dataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
