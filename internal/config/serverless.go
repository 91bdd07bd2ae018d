package config

import (
	"os"
	"sync"
	"time"
)

// ServerlessTimeout is the platform ceiling for a single invocation
const ServerlessTimeout = 300 * time.Second

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless keeps the model call inside the invocation ceiling.
func AdaptConfigForServerless(config *Config, serverless bool) *Config {
	if !serverless {
		return config
	}

	// Leave headroom for response assembly before the platform kills the invocation.
	if config.Gemini.Timeout <= 0 || config.Gemini.Timeout >= ServerlessTimeout {
		config.Gemini.Timeout = ServerlessTimeout - 10*time.Second
	}

	// Metrics are scraped from the long-running server only.
	config.Metrics.Enabled = false

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config, IsServerlessMode()), nil
}
