package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("file not found")

// Store keeps uploaded payment screenshots on disk under opaque
// uuid-based references. Callers only ever see the reference string;
// the bytes are never interpreted.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the uploaded bytes and returns the reference to store on
// the registration.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	ref := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return ref, nil
}

func (s *Store) Path(ref string) (string, error) {
	// refs are generated server-side; reject anything path-like
	if ref != filepath.Base(ref) || ref == "." || ref == "" {
		return "", ErrNotFound
	}
	full := filepath.Join(s.dir, ref)
	if _, err := os.Stat(full); err != nil {
		return "", ErrNotFound
	}
	return full, nil
}
