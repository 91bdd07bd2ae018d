package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// RESTClient calls generateContent over plain HTTP
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// RESTOption configures a RESTClient
type RESTOption func(*RESTClient)

// WithBaseURL overrides the API endpoint
func WithBaseURL(baseURL string) RESTOption {
	return func(c *RESTClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) RESTOption {
	return func(c *RESTClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) RESTOption {
	return func(c *RESTClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewRESTClient creates a new REST client
func NewRESTClient(apiKey string, opts ...RESTOption) *RESTClient {
	c := &RESTClient{
		httpClient: &http.Client{
			Timeout: 290 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type restContent struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type restRequest struct {
	Contents []restContent `json:"contents"`
}

// GenerateContent implements Generator
func (c *RESTClient) GenerateContent(ctx context.Context, model string, parts []Part) (*Response, error) {
	body, err := json.Marshal(restRequest{
		Contents: []restContent{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// The key travels in a header so it never shows up in URL-bearing transport errors.
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, normalizeError(resp.StatusCode, resp.Header, respBody)
	}

	parsed, err := ParseResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return parsed, nil
}
