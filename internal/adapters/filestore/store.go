// Package filestore keeps uploaded and generated images as flat files in a
// single directory that is also served under /uploads/.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

// URLPrefix is the public path the directory is mounted at.
const URLPrefix = "/uploads/"

type Store struct {
	dir string
}

var _ ports.ImageStore = (*Store)(nil)

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data as "<kind>_<uuid><ext>" and returns the file name.
func (s *Store) Save(kind, ext string, data []byte) (string, error) {
	if kind == "" || strings.ContainsAny(kind, `/\`) || strings.ContainsAny(ext, `/\`) {
		return "", fmt.Errorf("filestore: invalid name parts %q %q", kind, ext)
	}
	name := fmt.Sprintf("%s_%s%s", kind, uuid.New().String(), ext)

	// Write to a temp file first so a reader never sees a partial image.
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("filestore: create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("filestore: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("filestore: close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("filestore: chmod %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("filestore: rename %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *Store) Remove(name string) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return fmt.Errorf("filestore: invalid file name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: remove %s: %w", name, err)
	}
	return nil
}

// URL returns the public path for a stored file.
func (s *Store) URL(name string) string {
	return URLPrefix + name
}
