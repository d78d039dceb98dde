package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"posts-api/internal/models"
	"posts-api/internal/repositories"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	PostService PostService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	DefaultUserID int
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repo repositories.PostRepository, config *ServiceConfig, logger *logrus.Logger) (*ServiceContainer, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository cannot be nil")
	}

	if config == nil {
		config = &ServiceConfig{DefaultUserID: models.DefaultUserID}
	}

	if config.DefaultUserID <= 0 {
		return nil, fmt.Errorf("default user ID must be positive, got %d", config.DefaultUserID)
	}

	return &ServiceContainer{
		PostService: NewPostService(repo, StaticIdentity{ID: config.DefaultUserID}, logger),
	}, nil
}
