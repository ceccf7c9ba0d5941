package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage persists uploaded attachments in a flat directory. Stored names
// are prefixed with a fresh UUID so concurrent uploads never collide.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// SaveUpload writes the stream under a generated "<uuid>_<original>" name and
// returns the stored filename.
func (s *LocalStorage) SaveUpload(originalName string, r io.Reader) (string, error) {
	stored := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeName(originalName))
	file, err := os.Create(filepath.Join(s.baseDir, stored))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return stored, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(stored string) (*os.File, error) {
	file, err := os.Open(s.Path(stored))
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	return file, nil
}

// Path resolves the absolute location of a stored file.
func (s *LocalStorage) Path(stored string) string {
	return filepath.Join(s.baseDir, filepath.Base(stored))
}

// Dir exposes the base directory for static file serving.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

// DisplayName strips the synthetic UUID prefix from a stored filename.
func DisplayName(stored string) string {
	if i := strings.Index(stored, "_"); i >= 0 {
		return stored[i+1:]
	}
	return stored
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '-'
		}
		return r
	}, name)
}
