package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"429 Too Many Requests", true},
		{"Error 429, Message: Resource has been exhausted", true},
		{"QUOTA exhausted", true},
		{"too many requests", true},
		{"Rate limit Exceeded", true},
		{"network unreachable", false},
		{"500 Internal Server Error", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, isRateLimited(tt.message))
		})
	}
}

func TestClassifyGenerationError(t *testing.T) {
	t.Run("SDKRetryInfo", func(t *testing.T) {
		err := fmt.Errorf("generate: %w", genai.APIError{
			Code:    429,
			Message: "Resource has been exhausted",
			Status:  "RESOURCE_EXHAUSTED",
			Details: []map[string]any{{
				"@type":      "type.googleapis.com/google.rpc.RetryInfo",
				"retryDelay": "20s",
			}},
		})

		classified := classifyGenerationError(err)

		assert.Equal(t, KindResourceExhausted, classified.Kind)
		assert.Equal(t, "AI rate limit or quota exceeded. Retry after 20s.", classified.Message)
	})

	t.Run("Internal", func(t *testing.T) {
		classified := classifyGenerationError(errors.New("network unreachable"))

		assert.Equal(t, KindInternal, classified.Kind)
		assert.Equal(t, "AI processing failed: network unreachable", classified.Message)
	})

	t.Run("Nil", func(t *testing.T) {
		classified := classifyGenerationError(nil)

		assert.Equal(t, KindInternal, classified.Kind)
		assert.Equal(t, "AI processing failed: Unknown error", classified.Message)
	})
}

func TestClassifiedError(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &ClassifiedError{Kind: KindResourceExhausted, Message: "slow down", Err: cause})

	assert.True(t, IsKind(err, KindResourceExhausted))
	assert.False(t, IsKind(err, KindInternal))
	assert.Equal(t, KindResourceExhausted, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "resource-exhausted: slow down", NewClassifiedError(KindResourceExhausted, "slow down").Error())

	statuses := map[Kind]string{
		KindInvalidArgument:    "INVALID_ARGUMENT",
		KindFailedPrecondition: "FAILED_PRECONDITION",
		KindResourceExhausted:  "RESOURCE_EXHAUSTED",
		KindInternal:           "INTERNAL",
	}
	for kind, status := range statuses {
		assert.Equal(t, status, kind.Status())
	}
}
