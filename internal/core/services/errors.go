package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidInput marks request validation failures.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries a client-facing message for a rejected request.
type ValidationError struct {
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...), Err: err}
}

// CatalogError is returned when the music catalog call fails.
type CatalogError struct {
	Op  string // "search" or "track"
	Err error
}

func (e *CatalogError) Error() string {
	if e.Op == "search" {
		return fmt.Sprintf("Error searching Spotify: %v", e.Err)
	}
	return fmt.Sprintf("Error fetching track info: %v", e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

const (
	detailServerBusy         = "Server is currently busy. Please try again in a few minutes or try with a smaller image."
	detailServiceUnavailable = "Image generation service temporarily unavailable. Please try again."
)

// GenerationError is a classified image-generation failure.
type GenerationError struct {
	Status int
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	return e.Detail
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ClassifyGenerationError buckets an image-edit failure by its message text.
func ClassifyGenerationError(err error) *GenerationError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "CUDA out of memory") || strings.Contains(strings.ToLower(msg), "memory"):
		return &GenerationError{Status: http.StatusServiceUnavailable, Detail: detailServerBusy, Err: err}
	case strings.Contains(msg, "resource could not be found"):
		return &GenerationError{Status: http.StatusServiceUnavailable, Detail: detailServiceUnavailable, Err: err}
	default:
		return &GenerationError{Status: http.StatusInternalServerError, Detail: "Error generating image: " + msg, Err: err}
	}
}
