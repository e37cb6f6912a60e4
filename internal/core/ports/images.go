package ports

import "context"

// ImageEditRequest describes one image-to-image call.
type ImageEditRequest struct {
	Prompt         string
	NegativePrompt string
	Image          []byte
	ContentType    string // e.g. "image/jpeg"
	Strength       float64
	GuidanceScale  float64
	Steps          int
}

// ImageEditor applies an edit instruction to an image and returns the
// encoded result.
type ImageEditor interface {
	EditImage(ctx context.Context, req ImageEditRequest) ([]byte, error)
}

// ImageStore persists images in the flat uploads directory.
type ImageStore interface {
	// Save writes data as "<kind>_<uuid><ext>" and returns the file name.
	Save(kind, ext string, data []byte) (string, error)
	Remove(name string) error
	URL(name string) string
}
