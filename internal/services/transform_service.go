package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"image-transform-api/internal/config"
	"image-transform-api/internal/generator"
	"image-transform-api/internal/metrics"
	"image-transform-api/internal/models"
)

// ServiceConfig holds the transform service dependencies
type ServiceConfig struct {
	// Source is consulted on every call for credentials and model overrides.
	Source          config.Source
	CredentialNames []string
	ModelNames      []string
	DefaultModel    string
	MaxBase64Length int

	Generators generator.Factory
	Metrics    *metrics.Collector
	Logger     logrus.FieldLogger
}

// transformService implements the TransformService interface
type transformService struct {
	source          config.Source
	credentialNames []string
	modelNames      []string
	defaultModel    string
	maxBase64Length int

	generators generator.Factory
	metrics    *metrics.Collector
	logger     logrus.FieldLogger
	validator  *validator.Validate
}

// NewTransformService creates a new transform service instance
func NewTransformService(cfg ServiceConfig) (TransformService, error) {
	if cfg.Generators == nil {
		return nil, fmt.Errorf("generator factory cannot be nil")
	}
	if len(cfg.CredentialNames) == 0 {
		return nil, fmt.Errorf("at least one credential name is required")
	}

	source := cfg.Source
	if source == nil {
		source = config.EnvSource{}
	}
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = config.DefaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &transformService{
		source:          source,
		credentialNames: append([]string(nil), cfg.CredentialNames...),
		modelNames:      append([]string(nil), cfg.ModelNames...),
		defaultModel:    defaultModel,
		maxBase64Length: cfg.MaxBase64Length,
		generators:      cfg.Generators,
		metrics:         cfg.Metrics,
		logger:          logger.WithField("component", "transform_service"),
		validator:       validator.New(),
	}, nil
}

// Transform implements TransformService
func (s *transformService) Transform(ctx context.Context, req *models.TransformRequest) (*models.TransformResult, error) {
	start := time.Now()

	result, err := s.transform(ctx, req)

	outcome := metrics.OutcomeOK
	images := 0
	switch {
	case err != nil:
		outcome = string(KindOf(err))
	case !result.HasImages():
		outcome = metrics.OutcomeNoImages
	default:
		images = result.Count
	}
	s.metrics.RecordTransform(outcome, time.Since(start), images)

	return result, err
}

func (s *transformService) transform(ctx context.Context, req *models.TransformRequest) (*models.TransformResult, error) {
	if req == nil {
		return nil, NewClassifiedError(KindInvalidArgument, MsgMissingFields)
	}

	// Validate request
	if err := s.validator.Struct(req); err != nil {
		return nil, &ClassifiedError{Kind: KindInvalidArgument, Message: MsgMissingFields, Err: fieldError(err)}
	}

	// Size bound applies to the field as sent, before the prefix is stripped
	if models.ExceedsLength(req.Image, s.maxBase64Length) {
		return nil, NewClassifiedError(KindInvalidArgument, MsgImageTooLarge)
	}

	image := models.SanitizeImagePayload(req.Image)

	credentialName, apiKey, ok := config.FirstNonEmpty(s.source, s.credentialNames...)
	if !ok {
		s.logger.Error("No API key configured")
		return nil, NewClassifiedError(KindFailedPrecondition, MsgMissingAPIKey)
	}

	model := s.selectModel()
	s.logger.WithFields(logrus.Fields{
		"model":             model,
		"credential_source": credentialName,
	}).Info("Using generative model")

	gen, err := s.generators(ctx, apiKey)
	if err != nil {
		return nil, s.generationFailed(err)
	}

	resp, err := gen.GenerateContent(ctx, model, []generator.Part{
		generator.TextPart(req.Prompt),
		generator.InlineDataPart(models.DefaultMimeType, image),
	})
	if err != nil {
		return nil, s.generationFailed(err)
	}

	found := extractArtifacts(resp)
	if found.Fallback {
		s.metrics.RecordFallbackScan()
	}

	result := models.NewTransformResult(found.Images, found.Text)
	if !result.HasImages() {
		s.logger.WithFields(logrus.Fields{
			"model":         model,
			"response_kind": resp.Kind.String(),
			"response":      resp.String(),
		}).Error("No images generated in response")
		return result, nil
	}

	s.logger.WithFields(logrus.Fields{
		"model":    model,
		"count":    result.Count,
		"fallback": found.Fallback,
	}).Debug("Generated images extracted")

	return result, nil
}

// selectModel returns the first configured override or the default model
func (s *transformService) selectModel() string {
	if _, model, ok := config.FirstNonEmpty(s.source, s.modelNames...); ok {
		return model
	}
	return s.defaultModel
}

// generationFailed logs the full failure and returns its classified form
func (s *transformService) generationFailed(err error) *ClassifiedError {
	classified := classifyGenerationError(err)
	s.logger.WithError(err).WithField("kind", classified.Kind).Error("Gemini AI generation error")
	return classified
}

// fieldError reports the first failed field of a validation error
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	field := strings.ToLower(verrs[0].Field())
	return &models.ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s is %s", field, verrs[0].Tag()),
	}
}
