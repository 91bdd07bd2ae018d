package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"image-transform-api/internal/models"
)

func newTestStorage(t *testing.T) *LocalFileStorage {
	t.Helper()
	storage, err := NewLocalFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestLocalFileStorage_Store(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	testData := []byte("image bytes")

	tests := []struct {
		name    string
		key     string
		opts    *StoreOptions
		wantErr error
	}{
		{name: "store valid file", key: "out/result-1.png"},
		{name: "existing file without overwrite", key: "out/result-1.png", wantErr: ErrFileAlreadyExists},
		{name: "existing file with overwrite", key: "out/result-1.png", opts: &StoreOptions{Overwrite: true}},
		{name: "path traversal", key: "../../../etc/passwd", wantErr: ErrInvalidKey},
		{name: "absolute path", key: "/etc/passwd", wantErr: ErrInvalidKey},
		{name: "empty key", key: "", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storage.Store(ctx, tt.key, testData, tt.opts)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Store() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Store() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(storage.BasePath(), "out", "result-1.png"))
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("Stored data = %q, want %q", data, testData)
	}
	if _, err := os.Stat(filepath.Join(storage.BasePath(), "out", "result-1.png.tmp")); !os.IsNotExist(err) {
		t.Errorf("Temp file should not remain after store")
	}
}

func TestLocalFileStorage_RetrieveAndExists(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	exists, err := storage.Exists(ctx, "missing.png")
	if err != nil || exists {
		t.Fatalf("Exists() = %v, %v; want false, nil", exists, err)
	}

	if _, err := storage.Retrieve(ctx, "missing.png"); !IsNotFound(err) {
		t.Fatalf("Retrieve() error = %v, want not found", err)
	}

	if err := storage.Store(ctx, "a.png", []byte("x"), nil); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	exists, err = storage.Exists(ctx, "a.png")
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v; want true, nil", exists, err)
	}

	data, err := storage.Retrieve(ctx, "a.png")
	if err != nil || string(data) != "x" {
		t.Fatalf("Retrieve() = %q, %v", data, err)
	}
}

func TestSaveArtifacts(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	artifacts := []models.GeneratedArtifact{
		{Data: base64.StdEncoding.EncodeToString([]byte("png")), MimeType: "image/png"},
		{Data: base64.StdEncoding.EncodeToString([]byte("jpg")), MimeType: "image/jpeg"},
	}

	keys, err := SaveArtifacts(ctx, storage, "cat", artifacts, false)
	if err != nil {
		t.Fatalf("SaveArtifacts() error = %v", err)
	}

	want := []string{"cat-1.png", "cat-2.jpg"}
	if len(keys) != len(want) {
		t.Fatalf("SaveArtifacts() keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %s, want %s", i, keys[i], want[i])
		}
	}

	data, err := storage.Retrieve(ctx, "cat-2.jpg")
	if err != nil || string(data) != "jpg" {
		t.Errorf("Retrieve() = %q, %v", data, err)
	}

	if _, err := SaveArtifacts(ctx, storage, "cat", artifacts, false); !IsAlreadyExists(err) {
		t.Errorf("SaveArtifacts() without overwrite error = %v, want already exists", err)
	}
}

func TestSaveArtifactsInvalidData(t *testing.T) {
	storage := newTestStorage(t)

	keys, err := SaveArtifacts(context.Background(), storage, "bad", []models.GeneratedArtifact{{Data: "%%%", MimeType: "image/png"}}, false)
	if !errors.Is(err, ErrInvalidData) {
		t.Fatalf("SaveArtifacts() error = %v, want invalid data", err)
	}
	if len(keys) != 0 {
		t.Errorf("SaveArtifacts() keys = %v, want none", keys)
	}
}

func TestExtensionForMimeType(t *testing.T) {
	tests := map[string]string{
		"image/png":              ".png",
		"image/jpeg":             ".jpg",
		"image/webp":             ".webp",
		"application/x-unknown1": ".bin",
	}

	for mimeType, want := range tests {
		if got := ExtensionForMimeType(mimeType); got != want {
			t.Errorf("ExtensionForMimeType(%q) = %q, want %q", mimeType, got, want)
		}
	}
}
