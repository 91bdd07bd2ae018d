package lambda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"image-transform-api/internal/config"
	"image-transform-api/pkg/server"
)

// ContainerManager keeps one service container alive across warm Lambda invocations
type ContainerManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	initOnce    sync.Once
	initErr     error
	config      *config.Config
}

var (
	globalContainerManager *ContainerManager
	containerManagerOnce   sync.Once
)

// GetContainerManager returns the global container manager instance
func GetContainerManager() *ContainerManager {
	containerManagerOnce.Do(func() {
		globalContainerManager = &ContainerManager{}
	})
	return globalContainerManager
}

// Initialize builds the container once; later calls return the first result
func (cm *ContainerManager) Initialize(cfg *config.Config) error {
	cm.initOnce.Do(func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()

		cm.config = cfg
		container, err := server.NewContainer(cfg)
		if err != nil {
			cm.initErr = fmt.Errorf("failed to initialize container: %w", err)
			return
		}

		cm.container = container
		cm.lastUsed = time.Now()
		cm.initialized = true
	})

	return cm.initErr
}

// GetContainer returns the service container, initializing it on first use
func (cm *ContainerManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	if cm.initialized && cm.container != nil {
		cm.lastUsed = time.Now()
		container := cm.container
		cm.mu.Unlock()
		return container, nil
	}
	cm.mu.Unlock()

	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return nil, err
	}
	if err := cm.Initialize(cfg); err != nil {
		return nil, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if cm.container == nil {
		return nil, fmt.Errorf("container has been cleaned up")
	}
	return cm.container, nil
}

// IsHealthy reports whether a container is ready and was used recently
func (cm *ContainerManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup releases the container
func (cm *ContainerManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}
