package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"image-transform-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CallableError is the error object of the callable protocol
type CallableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CallableErrorResponse wraps a CallableError
type CallableErrorResponse struct {
	Error CallableError `json:"error"`
}

// CallableResponse wraps a successful callable result
type CallableResponse struct {
	Result interface{} `json:"result"`
}

// httpStatusForKind maps a classified kind onto the callable protocol's HTTP status
func httpStatusForKind(kind services.Kind) int {
	switch kind {
	case services.KindInvalidArgument, services.KindFailedPrecondition:
		return http.StatusBadRequest
	case services.KindResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// classify returns the kind and caller-safe message for err
func classify(err error) (services.Kind, string) {
	var ce *services.ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind, ce.Message
	}
	return services.KindInternal, "Internal server error"
}

func newErrorResponse(err error) (int, ErrorResponse) {
	kind, message := classify(err)
	return httpStatusForKind(kind), ErrorResponse{
		Error:   string(kind),
		Status:  kind.Status(),
		Message: message,
	}
}

func newCallableErrorResponse(err error) (int, CallableErrorResponse) {
	kind, message := classify(err)
	return httpStatusForKind(kind), CallableErrorResponse{
		Error: CallableError{Status: kind.Status(), Message: message},
	}
}

var (
	errInvalidBody   = services.NewClassifiedError(services.KindInvalidArgument, "Invalid request body")
	errImageTooLarge = services.NewClassifiedError(services.KindInvalidArgument, services.MsgImageTooLarge)
)

// bindError classifies a body decoding failure. A body cut off by the size
// limit can only carry an oversized image.
func bindError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errImageTooLarge
	}
	return errInvalidBody
}

func rejectOversize(c *gin.Context, size int64) {
	c.AbortWithStatusJSON(newErrorResponse(errImageTooLarge))
}

func rejectOversizeCallable(c *gin.Context, size int64) {
	c.AbortWithStatusJSON(newCallableErrorResponse(errImageTooLarge))
}
