package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var extensionMediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// sniffImage returns the media type of a JPEG, PNG or WebP header in data.
// Only the header is parsed.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image header: %w", err)
	}
	switch format {
	case "jpeg", "png", "webp":
		return "image/" + format, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
}

// mediaType prefers the sniffed type and otherwise trusts the extension.
// The boolean is false when sniffing failed.
func mediaType(data []byte, ext string) (string, bool) {
	if ct, err := sniffImage(data); err == nil {
		return ct, true
	}
	return extensionMediaTypes[ext], false
}
