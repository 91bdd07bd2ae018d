package generator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKParts(t *testing.T) {
	parts, err := toSDKParts([]Part{
		TextPart("caption"),
		InlineDataPart("image/png", "aW1n"),
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, "caption", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, []byte("img"), parts[1].InlineData.Data)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)

	_, err = toSDKParts([]Part{InlineDataPart("image/png", "not base64!")})
	assert.Error(t, err)
}

func TestSDKGenerateContent(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"))
		assert.Equal(t, "sdk-key", r.Header.Get("x-goog-api-key"))
		data, _ := io.ReadAll(r.Body)
		body = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"done"},{"inlineData":{"mimeType":"image/webp","data":"aW1hZ2VkYXRh"}}]}}]}`))
	}))
	defer server.Close()

	client, err := NewSDKClient(context.Background(), "sdk-key", Config{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.GenerateContent(context.Background(), "gemini-2.5-flash-image", []Part{
		TextPart("prompt"),
		InlineDataPart("image/png", "aW1n"),
	})
	require.NoError(t, err)

	assert.Contains(t, body, `"aW1n"`)
	assert.Equal(t, KindCandidates, resp.Kind)
	require.Len(t, resp.Parts, 2)
	assert.Equal(t, "done", resp.Parts[0].Text)
	require.NotNil(t, resp.Parts[1].InlineData)
	assert.Equal(t, "aW1hZ2VkYXRh", resp.Parts[1].InlineData.Data)
	assert.Equal(t, "image/webp", resp.Parts[1].InlineData.MimeType)
}

func TestSDKGenerateContentKeepsRawDocument(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		path     string
		wantKind Kind
	}{
		{
			name:     "no candidates",
			body:     `{"predictions":[{"wrapper":{"inlineData":{"data":"Q"}}}]}`,
			path:     "predictions.0.wrapper.inlineData.data",
			wantKind: KindUnknown,
		},
		{
			name:     "inline data nested inside a part",
			body:     `{"candidates":[{"content":{"parts":[{"extra":{"inlineData":{"data":"Q"}}}]}}]}`,
			path:     "candidates.0.content.parts.0.extra.inlineData.data",
			wantKind: KindCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			factory, err := NewFactory(Config{Backend: "sdk", BaseURL: server.URL})
			require.NoError(t, err)
			gen, err := factory(context.Background(), "sdk-key")
			require.NoError(t, err)

			resp, err := gen.GenerateContent(context.Background(), "m", []Part{TextPart("p")})
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.JSONEq(t, tt.body, resp.String())
			assert.Equal(t, "Q", resp.Document().Get(tt.path).String())
			assert.NotContains(t, resp.String(), "sdkHttpResponse")
		})
	}
}

func TestBodyCaptureSkipsFailedResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	capture := &bodyCapture{base: http.DefaultTransport}
	client := &http.Client{Transport: capture}

	resp, err := client.Post(server.URL+"/v1beta/models/m:generateContent", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Nil(t, capture.take())
}
