package models

const (
	// DefaultMimeType is assumed for inline data that does not declare one.
	DefaultMimeType = "image/png"

	// WarningNoImagesGenerated marks a successful result that carries no artifacts.
	WarningNoImagesGenerated = "no_images_generated"
)

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}
