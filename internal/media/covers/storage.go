// Package covers extracts, processes, and stores document cover images.
// Cover generation is a best-effort side operation: it runs after an
// import completes and its failure never affects the imported document.
package covers

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages cover image filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates cover storage rooted at basePath, creating the
// directory if needed.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

// Save stores image data for a document.
// Filename format: {id}.jpg.
func (s *Storage) Save(id string, imgData []byte) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(id), imgData, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// Get retrieves image data for a document.
func (s *Storage) Get(id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

// Delete removes a document's cover. Deleting an absent cover is a no-op.
func (s *Storage) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

// Exists reports whether a cover is stored for the document.
func (s *Storage) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Hash returns the SHA256 hex digest of the stored cover, for cache
// validation headers.
func (s *Storage) Hash(id string) (string, error) {
	data, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Path returns the filesystem path for a document's cover.
func (s *Storage) Path(id string) string {
	return filepath.Join(s.basePath, id+".jpg")
}
