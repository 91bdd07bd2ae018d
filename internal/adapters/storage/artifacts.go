package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"

	"image-transform-api/internal/models"
)

// SaveArtifacts decodes each generated image and stores it as <prefix>-<n><ext>.
// It returns the keys written, in artifact order.
func SaveArtifacts(ctx context.Context, store FileStorage, prefix string, artifacts []models.GeneratedArtifact, overwrite bool) ([]string, error) {
	keys := make([]string, 0, len(artifacts))
	for i, artifact := range artifacts {
		data, err := base64.StdEncoding.DecodeString(artifact.Data)
		if err != nil {
			return keys, NewStorageError("SaveArtifacts", "", fmt.Errorf("%w: image %d is not valid base64", ErrInvalidData, i+1))
		}

		key := fmt.Sprintf("%s-%d%s", prefix, i+1, ExtensionForMimeType(artifact.MimeType))
		if err := store.Store(ctx, key, data, &StoreOptions{ContentType: artifact.MimeType, Overwrite: overwrite}); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

var preferredExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionForMimeType picks a file extension for an image MIME type
func ExtensionForMimeType(mimeType string) string {
	if ext, ok := preferredExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
