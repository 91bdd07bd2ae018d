package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"image-transform-api/internal/config"
	"image-transform-api/internal/generator"
	"image-transform-api/internal/metrics"
	"image-transform-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	TransformService services.TransformService
	Metrics          *metrics.Collector
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	factory, err := generator.NewFactory(generator.Config{
		Backend: cfg.Gemini.Backend,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator factory: %w", err)
	}

	return NewContainerWithFactory(cfg, factory)
}

// NewContainerWithFactory creates a container around an existing generator factory
func NewContainerWithFactory(cfg *config.Config, factory generator.Factory) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	source := cfg.Source
	if source == nil {
		source = config.EnvSource{}
	}

	transformService, err := services.NewTransformService(services.ServiceConfig{
		Source:          source,
		CredentialNames: cfg.Gemini.CredentialNames,
		ModelNames:      cfg.Gemini.ModelNames,
		DefaultModel:    cfg.Gemini.DefaultModel,
		MaxBase64Length: cfg.Limits.MaxBase64Length,
		Generators:      factory,
		Metrics:         collector,
		Logger:          logrus.StandardLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transform service: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"backend":         cfg.Gemini.Backend,
		"metrics_enabled": collector != nil,
	}).Debug("Container initialized")

	return &Container{
		Config:           cfg,
		TransformService: transformService,
		Metrics:          collector,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	// Generators are built per call and hold no pooled resources.
	return nil
}
