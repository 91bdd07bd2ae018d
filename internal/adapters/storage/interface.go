package storage

import (
	"context"
)

// StoreOptions provides options for storing files
type StoreOptions struct {
	ContentType string `json:"content_type,omitempty"`
	Overwrite   bool   `json:"overwrite,omitempty"`
}

// FileStorage is where generated images are written
type FileStorage interface {
	// Store saves data under key
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	// Retrieve gets a file by its storage key
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Close cleans up any resources used by the storage implementation
	Close() error
}
