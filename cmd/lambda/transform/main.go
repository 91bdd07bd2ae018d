package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"image-transform-api/internal/config"
	"image-transform-api/internal/handlers"
	"image-transform-api/pkg/lambda"
)

var route func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	config.ConfigureLogging(cfg)

	manager := lambda.GetContainerManager()
	if err := manager.Initialize(cfg); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	container, err := manager.GetContainer(context.Background())
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	transformHandler := handlers.NewTransformHandler(container.TransformService)
	route = lambda.Router(
		lambda.Route{Method: http.MethodPost, Path: handlers.CallablePath, Handler: transformHandler.HandleCallable},
		lambda.Route{Method: http.MethodPost, Path: handlers.TransformPath, Handler: transformHandler.HandleTransform},
	)

	logrus.WithFields(logrus.Fields{
		"function": config.GetServerlessConfig().FunctionName,
		"mode":     config.GetDeploymentMode(),
	}).Info("Transform function initialized")
}

func main() {
	awslambda.Start(route)
}
