package domain

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxUploadBytes is the largest accepted image upload (10 MiB).
const MaxUploadBytes = 10 * 1024 * 1024

// AllowedExtensions lists the accepted upload extensions in display order.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

var (
	ErrUnsupportedExtension = errors.New("domain: unsupported file extension")
	ErrUploadTooLarge       = errors.New("domain: upload too large")
	ErrInvalidTrackID       = errors.New("domain: invalid track id")
)

var trackIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

// ValidateTrackID reports whether id looks like a catalog track id.
func ValidateTrackID(id string) error {
	if !trackIDPattern.MatchString(id) {
		return ErrInvalidTrackID
	}
	return nil
}

// UploadExtension returns the lowercased extension of filename if it is on
// the allow-list.
func UploadExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrUnsupportedExtension
}

// ValidateUploadSize rejects uploads above MaxUploadBytes.
func ValidateUploadSize(size int64) error {
	if size > MaxUploadBytes {
		return ErrUploadTooLarge
	}
	return nil
}
