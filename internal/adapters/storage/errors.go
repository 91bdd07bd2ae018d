package storage

import (
	"errors"
	"fmt"
)

// Common storage error types
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrInvalidKey        = errors.New("invalid storage key")
	ErrInvalidData       = errors.New("invalid data")
)

// StorageError represents a storage operation error with additional context
type StorageError struct {
	Op  string // Operation that failed (e.g., "Store", "Retrieve")
	Key string // Storage key involved in the operation
	Err error  // Underlying error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s operation failed for key '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s operation failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// IsNotFound returns true if the error indicates a file was not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsAlreadyExists returns true if the error indicates a file already exists
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrFileAlreadyExists)
}
