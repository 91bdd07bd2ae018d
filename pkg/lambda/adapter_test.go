package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-transform-api/internal/config"
)

func TestFromAPIGateway(t *testing.T) {
	t.Run("PlainBody", func(t *testing.T) {
		event := events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Path:       "/processImageWithNano",
			Headers:    map[string]string{"content-type": "application/json"},
			Body:       `{"data":{}}`,
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID: "req-1",
			},
		}

		req, err := FromAPIGateway(event)
		require.NoError(t, err)

		assert.Equal(t, "req-1", req.RequestID)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/processImageWithNano", req.Path)
		assert.Equal(t, []byte(`{"data":{}}`), req.Body)
		assert.Equal(t, "application/json", req.Header("Content-Type"))
	})

	t.Run("Base64Body", func(t *testing.T) {
		event := events.APIGatewayProxyRequest{
			Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
			IsBase64Encoded: true,
		}

		req, err := FromAPIGateway(event)
		require.NoError(t, err)

		assert.Equal(t, []byte(`{"a":1}`), req.Body)
		_, err = uuid.Parse(req.RequestID)
		assert.NoError(t, err, "request id is generated when missing")
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		_, err := FromAPIGateway(events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true})
		assert.Error(t, err)
	})
}

func TestRouter(t *testing.T) {
	echo := func(ctx context.Context, req *Request) (*Response, error) {
		return JSONResponse(http.StatusOK, req.Body), nil
	}
	failing := func(ctx context.Context, req *Request) (*Response, error) {
		return nil, errors.New("boom")
	}

	handler := Router(
		Route{Method: http.MethodPost, Path: "/echo", Handler: echo},
		Route{Method: http.MethodPost, Path: "/fail", Handler: failing},
	)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"match", http.MethodPost, "/echo", http.StatusOK, `{"x":1}`},
		{"handler error", http.MethodPost, "/fail", http.StatusInternalServerError, `{"error": "Internal server error"}`},
		{"wrong method", http.MethodGet, "/echo", http.StatusNotFound, `{"error": "Not found"}`},
		{"preflight", http.MethodOptions, "/echo", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
				HTTPMethod:     tt.method,
				Path:           tt.path,
				Body:           `{"x":1}`,
				RequestContext: events.APIGatewayProxyRequestContext{RequestID: "abc"},
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, "abc", resp.Headers["X-Request-ID"])
		})
	}
}

func TestContainerManager(t *testing.T) {
	cm := &ContainerManager{}
	assert.False(t, cm.IsHealthy())

	cfg := config.Default()
	cfg.Source = config.MapSource{}
	require.NoError(t, cm.Initialize(cfg))
	assert.True(t, cm.IsHealthy())

	container, err := cm.GetContainer(context.Background())
	require.NoError(t, err)
	assert.Same(t, cfg, container.Config)

	require.NoError(t, cm.Cleanup())
	assert.False(t, cm.IsHealthy())
}

func TestContainerManagerInitError(t *testing.T) {
	cm := &ContainerManager{}
	cfg := config.Default()
	cfg.Gemini.Backend = "unknown"

	assert.Error(t, cm.Initialize(cfg))
	assert.Error(t, cm.Initialize(config.Default()), "first result is sticky")
}
