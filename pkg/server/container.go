package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"posts-api/internal/config"
	"posts-api/internal/database"
	"posts-api/internal/handlers"
	"posts-api/internal/repositories"
	"posts-api/internal/services"
)

// Container holds all application dependencies. It is built once per process by the entry
// point, which also owns Close.
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Repository  repositories.PostRepository
	PostService services.PostService
	PostHandler *handlers.PostHandler
	Router      *handlers.Router
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := config.NewLogger(cfg.Log)

	repo, err := database.NewPostRepository(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open post store: %w", err)
	}

	container, err := NewContainerWithRepository(cfg, repo, logger)
	if err != nil {
		repo.Close()
		return nil, err
	}
	return container, nil
}

// NewContainerWithRepository wires the container around an already opened repository
func NewContainerWithRepository(cfg *config.Config, repo repositories.PostRepository, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = config.NewLogger(cfg.Log)
	}

	serviceContainer, err := services.NewServiceContainer(repo, &services.ServiceConfig{
		DefaultUserID: cfg.Posts.DefaultUserID,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	postHandler := handlers.NewPostHandler(serviceContainer.PostService, logger)
	router := handlers.NewRouter(postHandler, logger)
	if err := router.Pin(cfg.Posts.Function); err != nil {
		return nil, fmt.Errorf("invalid POSTS_FUNCTION: %w", err)
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Repository:  repo,
		PostService: serviceContainer.PostService,
		PostHandler: postHandler,
		Router:      router,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Repository == nil {
		return nil
	}

	if err := c.Repository.Close(); err != nil {
		return fmt.Errorf("failed to close post store: %w", err)
	}
	c.Repository = nil
	return nil
}
