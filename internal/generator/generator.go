// Package generator adapts the Gemini generateContent API for the transform service.
//
// Two backends are available: the google.golang.org/genai SDK and a plain REST
// client. Both return a Response carrying the raw JSON document alongside the
// typed candidates view, so callers can fall back to scanning the document when
// the expected shape is missing.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend identifiers
const (
	BackendSDK  = "sdk"
	BackendREST = "rest"
)

// InlineData is a base64 payload with its MIME type
type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// Part is one segment of a prompt or response
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// TextPart returns a text prompt segment
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlineDataPart returns a prompt segment carrying base64 data
func InlineDataPart(mimeType, data string) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: data}}
}

// Generator calls a generative model once and returns its response
type Generator interface {
	GenerateContent(ctx context.Context, model string, parts []Part) (*Response, error)
}

// Factory builds a Generator bound to an API key. Keys are resolved per call,
// so the service builds a generator per call as well.
type Factory func(ctx context.Context, apiKey string) (Generator, error)

// Config selects and tunes the backend
type Config struct {
	Backend string
	BaseURL string
	Timeout time.Duration
}

// NewFactory returns a Factory for the configured backend
func NewFactory(cfg Config) (Factory, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendSDK, "":
		return func(ctx context.Context, apiKey string) (Generator, error) {
			return NewSDKClient(ctx, apiKey, cfg)
		}, nil
	case BackendREST:
		return func(ctx context.Context, apiKey string) (Generator, error) {
			return NewRESTClient(apiKey, WithBaseURL(cfg.BaseURL), WithTimeout(cfg.Timeout)), nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported generator backend: %s", cfg.Backend)
	}
}
