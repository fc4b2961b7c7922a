package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileAdapter stores each key as a JSON file in a directory. Writes go to a
// temporary file first and are renamed into place.
type FileAdapter struct {
	dir    string
	logger *zap.Logger
}

// NewFileAdapter creates the directory if needed
func NewFileAdapter(dir string, logger *zap.Logger) (*FileAdapter, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileAdapter{dir: dir, logger: logger}, nil
}

func (a *FileAdapter) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(a.dir, key+".json"), nil
}

// Get reads the file stored under key
func (a *FileAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := a.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return data, nil
}

// Set atomically replaces the file stored under key
func (a *FileAdapter) Set(ctx context.Context, key string, value []byte) error {
	path, err := a.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(a.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	a.logger.Debug("state file written",
		zap.String("path", path),
		zap.Int("size_bytes", len(value)),
	)
	return nil
}

// Delete removes the file stored under key
func (a *FileAdapter) Delete(ctx context.Context, key string) error {
	path, err := a.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}
