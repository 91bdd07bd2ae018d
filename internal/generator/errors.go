package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// APIError is a non-2xx response from the REST backend
type APIError struct {
	StatusCode int
	Status     string // e.g. RESOURCE_EXHAUSTED
	Message    string
	Header     http.Header
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, status)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, status, e.Message)
}

// RetryAfter returns the raw Retry-After header value if the server sent one
func (e *APIError) RetryAfter() (string, bool) {
	if e.Header == nil {
		return "", false
	}
	value := strings.TrimSpace(e.Header.Get("Retry-After"))
	return value, value != ""
}

// googleErrorResponse is the {"error": {...}} envelope of the Gemini API
type googleErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// normalizeError converts an HTTP error response into an APIError
func normalizeError(status int, header http.Header, body []byte) error {
	var errResp googleErrorResponse
	_ = json.Unmarshal(body, &errResp)

	message := errResp.Error.Message
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	return &APIError{
		StatusCode: status,
		Status:     errResp.Error.Status,
		Message:    message,
		Header:     header,
	}
}

type retryAfterer interface {
	RetryAfter() (string, bool)
}

// RetryAfter extracts a retry hint in seconds from err. It understands a
// Retry-After header and the RetryInfo detail the SDK surfaces. Any failure
// to find one yields ok == false.
func RetryAfter(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var ra retryAfterer
	if errors.As(err, &ra) {
		if value, ok := ra.RetryAfter(); ok {
			return value, true
		}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryDelay(apiErr.Details)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryDelay(apiErrPtr.Details)
	}

	return "", false
}

// retryDelay reads google.rpc.RetryInfo.retryDelay ("37s") as whole seconds
func retryDelay(details []map[string]any) (string, bool) {
	for _, detail := range details {
		if kind, _ := detail["@type"].(string); kind != retryInfoType {
			continue
		}
		raw, ok := detail["retryDelay"].(string)
		if !ok || raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			continue
		}
		return strconv.Itoa(int(math.Ceil(d.Seconds()))), true
	}
	return "", false
}
