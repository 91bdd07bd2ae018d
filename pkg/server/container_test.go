package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-transform-api/internal/config"
	"image-transform-api/internal/generator"
	"image-transform-api/internal/models"
)

type stubGenerator struct{}

func (stubGenerator) GenerateContent(ctx context.Context, model string, parts []generator.Part) (*generator.Response, error) {
	return generator.ParseResponse([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":"QUJD"}}]}}]}`))
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.MapSource{}

	container, err := NewContainer(cfg)
	require.NoError(t, err)
	require.NotNil(t, container)

	assert.NotNil(t, container.TransformService)
	assert.NotNil(t, container.Metrics)
	assert.Same(t, cfg, container.Config)
	assert.NoError(t, container.Close())
}

func TestNewContainerMetricsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false

	container, err := NewContainer(cfg)
	require.NoError(t, err)
	assert.Nil(t, container.Metrics)
}

func TestNewContainerRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.Backend = "grpc"

	_, err := NewContainer(cfg)
	assert.Error(t, err)

	_, err = NewContainer(nil)
	assert.Error(t, err)
}

func TestContainerWiresTransformService(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.MapSource{"GEMINI_API_KEY": "k"}

	var gotKey string
	container, err := NewContainerWithFactory(cfg, func(ctx context.Context, apiKey string) (generator.Generator, error) {
		gotKey = apiKey
		return stubGenerator{}, nil
	})
	require.NoError(t, err)

	result, err := container.TransformService.Transform(context.Background(), &models.TransformRequest{Image: "AAAA", Prompt: "p"})
	require.NoError(t, err)

	assert.Equal(t, "k", gotKey)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "QUJD", result.Images[0].Data)
}

func TestContainerFallbackScanOnEveryBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"wrapper":{"inlineData":{"data":"Q"}}}]}`))
	}))
	defer server.Close()

	for _, backend := range []string{config.BackendSDK, config.BackendREST} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Metrics.Enabled = false
			cfg.Gemini.Backend = backend
			cfg.Gemini.BaseURL = server.URL
			cfg.Source = config.MapSource{"GEMINI": "k"}

			container, err := NewContainer(cfg)
			require.NoError(t, err)

			result, err := container.TransformService.Transform(context.Background(), &models.TransformRequest{Image: "AAAA", Prompt: "p"})
			require.NoError(t, err)

			require.Equal(t, 1, result.Count)
			assert.Equal(t, models.GeneratedArtifact{Data: "Q", MimeType: "image/png"}, result.Images[0])
			assert.Empty(t, result.Warning)
		})
	}
}
