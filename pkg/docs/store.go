package docs

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/glow/pkg/errors"
)

// Page types, used as the first directory level of the docs tree.
const (
	TypeDataSources = "data sources"
	TypeEvents      = "events"
)

// PageExt is the extension of generated pages.
const PageExt = ".md"

// Store writes generated files under a docs root directory.
type Store struct {
	Root string
}

// NewStore returns a store rooted at root.
func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Write stores a markdown page at <root>/<defType>/<category>/<name>.md and
// returns its path. category and name are display names and are sanitized
// into path segments.
func (s *Store) Write(defType, category, name, content string) (string, error) {
	return s.write(defType, category, errors.SanitizeFileName(name, PageExt), []byte(content))
}

// WriteAsset stores an arbitrary file next to the pages of a category.
// file is sanitized into a single path segment.
func (s *Store) WriteAsset(defType, category, file string, data []byte) (string, error) {
	return s.write(defType, category, errors.SanitizePathSegment(file), data)
}

func (s *Store) write(defType, category, file string, data []byte) (string, error) {
	dir, err := s.dir(defType, category)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) dir(defType, category string) (string, error) {
	if err := errors.ValidatePathSegment(defType); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, defType, errors.SanitizePathSegment(category)), nil
}
