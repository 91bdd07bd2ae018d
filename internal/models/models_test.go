package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeImagePayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"png data uri", "data:image/png;base64,AAAA", "AAAA"},
		{"jpeg data uri", "data:image/jpeg;base64,/9j/4AAQ", "/9j/4AAQ"},
		{"mixed case subtype", "data:image/WebP;base64,UklG", "UklG"},
		{"bare base64", "iVBORw0KGgo=", "iVBORw0KGgo="},
		{"non alphabetic subtype kept", "data:image/svg+xml;base64,PHN2", "data:image/svg+xml;base64,PHN2"},
		{"upper case literal kept", "DATA:image/png;base64,AAAA", "DATA:image/png;base64,AAAA"},
		{"prefix not at start kept", "xdata:image/png;base64,AAAA", "xdata:image/png;base64,AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeImagePayload(tt.input))
		})
	}
}

func TestExceedsLength(t *testing.T) {
	limit := 6 * 1024 * 1024

	assert.False(t, ExceedsLength(strings.Repeat("A", limit), limit))
	assert.True(t, ExceedsLength(strings.Repeat("A", limit+1), limit))
	assert.False(t, ExceedsLength(strings.Repeat("A", limit+1), 0), "zero disables the bound")
}

func TestNewTransformResult(t *testing.T) {
	t.Run("WithImages", func(t *testing.T) {
		text := "hello"
		result := NewTransformResult([]GeneratedArtifact{{Data: "XYZ", MimeType: "image/jpeg"}}, &text)

		assert.Equal(t, 1, result.Count)
		assert.Empty(t, result.Warning)
		assert.True(t, result.HasImages())
	})

	t.Run("Empty", func(t *testing.T) {
		result := NewTransformResult(nil, nil)

		assert.Equal(t, 0, result.Count)
		assert.Equal(t, WarningNoImagesGenerated, result.Warning)
		assert.NotNil(t, result.Images)
		assert.False(t, result.HasImages())
	})
}

func TestTransformResultJSON(t *testing.T) {
	data, err := json.Marshal(NewTransformResult(nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"images":[],"text":null,"count":0,"warning":"no_images_generated"}`, string(data))

	text := "caption"
	data, err = json.Marshal(NewTransformResult([]GeneratedArtifact{{Data: "Q", MimeType: "image/png"}}, &text))
	require.NoError(t, err)
	assert.JSONEq(t, `{"images":[{"data":"Q","mimeType":"image/png"}],"text":"caption","count":1}`, string(data))
}
