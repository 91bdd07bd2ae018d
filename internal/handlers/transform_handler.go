package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"image-transform-api/internal/models"
	"image-transform-api/internal/services"
	"image-transform-api/pkg/lambda"
)

// TransformHandler handles image transform requests
type TransformHandler struct {
	transformService services.TransformService
}

// NewTransformHandler creates a new transform handler
func NewTransformHandler(transformService services.TransformService) *TransformHandler {
	return &TransformHandler{
		transformService: transformService,
	}
}

// callableRequest is the {"data": ...} envelope of the callable protocol
type callableRequest struct {
	Data *models.TransformRequest `json:"data"`
}

// @Summary Transform an image
// @Description Send a base64 image and a prompt to the generative model and return the generated images
// @Tags images
// @Accept json
// @Produce json
// @Param request body models.TransformRequest true "Image and prompt"
// @Success 200 {object} models.TransformResult
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /images/transform [post]
func (h *TransformHandler) Transform(c *gin.Context) {
	var req models.TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		c.JSON(newErrorResponse(bindError(err)))
		return
	}

	result, err := h.transformService.Transform(c.Request.Context(), &req)
	if err != nil {
		c.JSON(newErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Transform an image (callable protocol)
// @Description Callable endpoint: the request is wrapped in "data", the result in "result"
// @Tags images
// @Accept json
// @Produce json
// @Param request body callableRequest true "Callable envelope"
// @Success 200 {object} CallableResponse
// @Failure 400 {object} CallableErrorResponse
// @Failure 429 {object} CallableErrorResponse
// @Failure 500 {object} CallableErrorResponse
// @Router /processImageWithNano [post]
func (h *TransformHandler) Callable(c *gin.Context) {
	var req callableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		c.JSON(newCallableErrorResponse(bindError(err)))
		return
	}

	result, err := h.transformService.Transform(c.Request.Context(), req.payload())
	if err != nil {
		c.JSON(newCallableErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, CallableResponse{Result: result})
}

// HandleTransform is the Lambda counterpart of Transform
func (h *TransformHandler) HandleTransform(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var payload models.TransformRequest
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return jsonResponse(newErrorResponse(errInvalidBody))
	}

	result, err := h.transformService.Transform(ctx, &payload)
	if err != nil {
		logFailure(req, err)
		return jsonResponse(newErrorResponse(err))
	}

	return jsonResponse(http.StatusOK, result)
}

// HandleCallable is the Lambda counterpart of Callable
func (h *TransformHandler) HandleCallable(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var envelope callableRequest
	if err := json.Unmarshal(req.Body, &envelope); err != nil {
		return jsonResponse(newCallableErrorResponse(errInvalidBody))
	}

	result, err := h.transformService.Transform(ctx, envelope.payload())
	if err != nil {
		logFailure(req, err)
		return jsonResponse(newCallableErrorResponse(err))
	}

	return jsonResponse(http.StatusOK, CallableResponse{Result: result})
}

// payload returns the wrapped request, or an empty one so validation reports the missing fields
func (r callableRequest) payload() *models.TransformRequest {
	if r.Data == nil {
		return &models.TransformRequest{}
	}
	return r.Data
}

func jsonResponse(status int, body interface{}) (*lambda.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return lambda.JSONResponse(status, data), nil
}

func logFailure(req *lambda.Request, err error) {
	logrus.WithFields(logrus.Fields{
		"request_id": req.RequestID,
		"path":       req.Path,
		"kind":       services.KindOf(err),
	}).Warn("Transform failed")
}
