package services

import (
	"regexp"
	"strings"

	"image-transform-api/internal/generator"
)

var rateLimitPattern = regexp.MustCompile(`(?i)quota|too many requests|exceeded`)

// isRateLimited applies the message heuristic for quota and rate-limit failures
func isRateLimited(message string) bool {
	return strings.Contains(message, "429") || rateLimitPattern.MatchString(message)
}

// classifyGenerationError converts a failed model call into its caller-facing form
func classifyGenerationError(err error) *ClassifiedError {
	var message string
	if err != nil {
		message = err.Error()
	}

	if isRateLimited(message) {
		msg := MsgRateLimited
		if retryAfter, ok := generator.RetryAfter(err); ok {
			msg += " Retry after " + retryAfter + "s."
		}
		return &ClassifiedError{Kind: KindResourceExhausted, Message: msg, Err: err}
	}

	if message == "" {
		message = msgUnknownError
	}
	return &ClassifiedError{Kind: KindInternal, Message: msgInternalPrefix + message, Err: err}
}
