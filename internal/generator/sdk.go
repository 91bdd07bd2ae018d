package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// SDKClient calls generateContent through google.golang.org/genai
type SDKClient struct {
	client  *genai.Client
	capture *bodyCapture
}

// bodyCapture keeps the last successful generateContent body as sent by the
// server, so the fallback scan sees fields and key order the typed response drops.
type bodyCapture struct {
	base http.RoundTripper

	mu   sync.Mutex
	body []byte
}

func (b *bodyCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := b.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}
	if !strings.HasSuffix(req.URL.Path, ":generateContent") {
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	b.mu.Lock()
	b.body = data
	b.mu.Unlock()
	return resp, nil
}

// take returns and clears the captured body
func (b *bodyCapture) take() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := b.body
	b.body = nil
	return data
}

// NewSDKClient creates a genai client for the Gemini API backend
func NewSDKClient(ctx context.Context, apiKey string, cfg Config) (*SDKClient, error) {
	capture := &bodyCapture{base: http.DefaultTransport}
	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout, Transport: capture},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &SDKClient{client: client, capture: capture}, nil
}

// GenerateContent implements Generator
func (c *SDKClient) GenerateContent(ctx context.Context, model string, parts []Part) (*Response, error) {
	sdkParts, err := toSDKParts(parts)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{genai.NewContentFromParts(sdkParts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, err
	}

	raw := c.capture.take()
	if raw == nil {
		// Only reached when the body was not seen on the wire.
		if raw, err = json.Marshal(resp); err != nil {
			return nil, fmt.Errorf("failed to encode model response: %w", err)
		}
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	return parsed, nil
}

// toSDKParts converts prompt parts, decoding inline base64 into raw bytes
func toSDKParts(parts []Part) ([]*genai.Part, error) {
	out := make([]*genai.Part, 0, len(parts))
	for i, part := range parts {
		if part.InlineData != nil {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 in part %d: %w", i, err)
			}
			out = append(out, genai.NewPartFromBytes(data, part.InlineData.MimeType))
			continue
		}
		out = append(out, genai.NewPartFromText(part.Text))
	}
	return out, nil
}
