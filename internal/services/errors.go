package services

import (
	"errors"
	"fmt"
)

// Kind is the small taxonomy callers use to decide retry and messaging behaviour
type Kind string

const (
	KindInvalidArgument    Kind = "invalid-argument"
	KindFailedPrecondition Kind = "failed-precondition"
	KindResourceExhausted  Kind = "resource-exhausted"
	KindInternal           Kind = "internal"
)

// Caller-visible messages
const (
	MsgMissingFields  = "The function must be called with `image` and `prompt`."
	MsgImageTooLarge  = "Image is too large. Upload to Cloud Storage and pass a URL instead."
	MsgMissingAPIKey  = "Missing API key. Set the secret `GEMINI` or an environment variable like GEMINI_API_KEY."
	MsgRateLimited    = "AI rate limit or quota exceeded."
	msgInternalPrefix = "AI processing failed: "
	msgUnknownError   = "Unknown error"
)

// Status returns the callable protocol status code for the kind
func (k Kind) Status() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindFailedPrecondition:
		return "FAILED_PRECONDITION"
	case KindResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	default:
		return "INTERNAL"
	}
}

// ClassifiedError is the only error Transform returns. Message is safe to show
// to the caller; Err keeps the underlying cause for server-side logs.
type ClassifiedError struct {
	Kind    Kind
	Message string
	Err     error
}

// NewClassifiedError creates a classified error without an underlying cause
func NewClassifiedError(kind Kind, message string) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Message: message}
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, treating unclassified errors as internal
func KindOf(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a ClassifiedError of the given kind
func IsKind(err error, kind Kind) bool {
	var ce *ClassifiedError
	return errors.As(err, &ce) && ce.Kind == kind
}
