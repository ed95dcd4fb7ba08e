package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const defaultFileName = "file"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Store keeps uploaded files in a local directory
type Store struct {
	dir string
}

// New creates the directory if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes content under a unique sanitized name and returns its path
func (s *Store) Save(name string, content []byte) (string, error) {
	path := filepath.Join(s.dir, uniqueName(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file; a missing file is not an error
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// SanitizeFilename keeps the base name and replaces anything outside
// [a-zA-Z0-9._-] with an underscore
func SanitizeFilename(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	if base == "." || base == "/" || base == ".." || base == "" {
		return defaultFileName
	}
	return unsafeChars.ReplaceAllString(base, "_")
}

func uniqueName(name string) string {
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), uuid.NewString()[:8], SanitizeFilename(name))
}
