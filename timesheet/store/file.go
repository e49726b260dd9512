package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// =============================================================================
// FILE STORE - Single-file blob slot
// =============================================================================

// File persists the snapshot as one JSON file on disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the file, or returns (nil, nil) if it does not exist yet.
func (f *File) Load(_ context.Context) ([]byte, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Save writes the blob, creating parent directories as needed.
func (f *File) Save(_ context.Context, blob []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, blob, 0o644)
}
