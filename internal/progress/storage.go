package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoRecord is returned by a Storage when nothing has been written yet
var ErrNoRecord = errors.New("progress record does not exist")

// Storage persists the raw progress document.
// Read returns ErrNoRecord (possibly wrapped) when the document is absent.
type Storage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileStorage keeps the document in a single JSON file
type FileStorage struct {
	path string
}

// NewFileStorage creates a storage for the file at path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the location of the document
func (s *FileStorage) Path() string {
	return s.path
}

// Read returns the whole file
func (s *FileStorage) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.path, ErrNoRecord)
		}
		return nil, fmt.Errorf("error reading progress file: %w", err)
	}
	return data, nil
}

// Write replaces the file. The data goes to a temporary file in the same
// directory first and is renamed over the target, so readers never see a
// half-written document.
func (s *FileStorage) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating progress directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing progress file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing progress file: %w", err)
	}
	return nil
}
