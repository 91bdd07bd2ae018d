package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStorage implements FileStorage for local filesystem
type LocalFileStorage struct {
	basePath string
}

// NewLocalFileStorage creates a new LocalFileStorage instance
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	// Ensure base path exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err)
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err)
	}

	return &LocalFileStorage{basePath: absPath}, nil
}

// BasePath returns the absolute directory files are written under
func (l *LocalFileStorage) BasePath() string {
	return l.basePath
}

// Store implements FileStorage.Store
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := l.validateKey(key); err != nil {
		return NewStorageError("Store", key, err)
	}
	if err := ctx.Err(); err != nil {
		return NewStorageError("Store", key, err)
	}

	filePath := l.getFilePath(key)

	// Check if file exists and overwrite is not allowed
	if opts == nil || !opts.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return NewStorageError("Store", key, ErrFileAlreadyExists)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return NewStorageError("Store", key, err)
	}

	// Write file atomically by writing to temp file first
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return NewStorageError("Store", key, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return NewStorageError("Store", key, err)
	}

	return nil
}

// Retrieve implements FileStorage.Retrieve
func (l *LocalFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := l.validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err)
	}

	data, err := os.ReadFile(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("Retrieve", key, ErrFileNotFound)
		}
		return nil, NewStorageError("Retrieve", key, err)
	}

	return data, nil
}

// Exists implements FileStorage.Exists
func (l *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := l.validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err)
	}

	_, err := os.Stat(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewStorageError("Exists", key, err)
	}

	return true, nil
}

// Close implements FileStorage.Close
func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	// Prevent directory traversal
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}

	return nil
}

func (l *LocalFileStorage) getFilePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}
