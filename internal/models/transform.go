package models

// TransformRequest is the caller payload: a base64 image (optionally a data URI) and a prompt.
type TransformRequest struct {
	Image  string `json:"image" validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
}

// GeneratedArtifact is one inline binary payload returned by the model.
type GeneratedArtifact struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// TransformResult is returned for every successful call, including the empty case.
type TransformResult struct {
	Images  []GeneratedArtifact `json:"images"`
	Text    *string             `json:"text"`
	Count   int                 `json:"count"`
	Warning string              `json:"warning,omitempty"`
}

// NewTransformResult assembles a result, keeping Count in step with Images and
// tagging the empty case with WarningNoImagesGenerated.
func NewTransformResult(images []GeneratedArtifact, text *string) *TransformResult {
	if images == nil {
		images = []GeneratedArtifact{}
	}

	result := &TransformResult{
		Images: images,
		Text:   text,
		Count:  len(images),
	}
	if len(images) == 0 {
		result.Warning = WarningNoImagesGenerated
	}
	return result
}

// HasImages reports whether the model produced at least one artifact
func (r *TransformResult) HasImages() bool {
	return r != nil && len(r.Images) > 0
}
