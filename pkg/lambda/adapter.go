package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FromAPIGateway converts an API Gateway proxy event into a Request
func FromAPIGateway(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode request body: %w", err)
		}
		body = decoded
	}

	requestID := event.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	return &Request{
		RequestID:   requestID,
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// ToAPIGateway converts a Response into an API Gateway proxy response
func ToAPIGateway(resp *Response, requestID string) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(resp.Headers)+1)
	for k, v := range resp.Headers {
		headers[k] = v
	}
	if requestID != "" {
		headers["X-Request-ID"] = requestID
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(resp.Body),
	}
}

// Route binds a method and path to a handler
type Route struct {
	Method  string
	Path    string
	Handler HandlerFunc
}

// Router dispatches API Gateway events to the first matching route
func Router(routes ...Route) func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromAPIGateway(event)
		if err != nil {
			return ToAPIGateway(JSONResponse(http.StatusBadRequest, []byte(`{"error": "Invalid request body"}`)), event.RequestContext.RequestID), nil
		}

		logger := logrus.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"method":     req.Method,
			"path":       req.Path,
		})

		if req.Method == http.MethodOptions {
			return ToAPIGateway(&Response{StatusCode: http.StatusNoContent, Headers: corsHeaders()}, req.RequestID), nil
		}

		for _, route := range routes {
			if route.Method != req.Method || route.Path != req.Path {
				continue
			}

			resp, err := route.Handler(ctx, req)
			if err != nil {
				logger.WithError(err).Error("Handler failed")
				return ToAPIGateway(JSONResponse(http.StatusInternalServerError, []byte(`{"error": "Internal server error"}`)), req.RequestID), nil
			}
			if resp.Headers == nil {
				resp.Headers = map[string]string{}
			}
			for k, v := range corsHeaders() {
				resp.Headers[k] = v
			}

			logger.WithField("status", resp.StatusCode).Info("Request completed")
			return ToAPIGateway(resp, req.RequestID), nil
		}

		logger.Warn("No route matched")
		return ToAPIGateway(JSONResponse(http.StatusNotFound, []byte(`{"error": "Not found"}`)), req.RequestID), nil
	}
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization, X-Request-ID",
	}
}
