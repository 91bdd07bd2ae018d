package services

import (
	"context"

	"image-transform-api/internal/models"
)

// TransformService defines the interface for the image transform operation
type TransformService interface {
	// Transform sends the image and prompt to the generative model and collects
	// the generated images. Failures are always *ClassifiedError.
	Transform(ctx context.Context, req *models.TransformRequest) (*models.TransformResult, error)
}
