package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"posts-api/internal/models"
	"posts-api/internal/repositories"
)

// postService implements the PostService interface
type postService struct {
	repo      repositories.PostRepository
	identity  IdentityProvider
	validator *validator.Validate
	logger    *logrus.Logger
	now       func() time.Time
}

// NewPostService creates a new post service instance
func NewPostService(repo repositories.PostRepository, identity IdentityProvider, logger *logrus.Logger) PostService {
	if identity == nil {
		identity = StaticIdentity{ID: models.DefaultUserID}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &postService{
		repo:      repo,
		identity:  identity,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// newValidator returns a validator that reports JSON field names and understands notblank
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// CreatePost validates the request, stamps id, owner and creation time, and stores the post
func (s *postService) CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error) {
	if req == nil {
		return nil, &models.ValidationError{Field: "body", Message: "request body is required"}
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, toValidationError(err, "%s is required")
	}

	userID, err := s.identity.UserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	post := models.NewPost(userID, req.Title, req.Body, s.now())

	if err := s.repo.Put(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": post.UserID,
	}).Info("Post created")

	return post, nil
}

// ListPosts scans up to limit posts and orders them newest first
func (s *postService) ListPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit < 0 {
		return nil, models.ValidatePositiveInteger(limit, "number")
	}

	posts, err := s.repo.Scan(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if posts == nil {
		posts = []*models.Post{}
	}
	models.SortByCreatedAtDesc(posts)

	return posts, nil
}

// GetPost retrieves a post by ID
func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// UpdatePost writes the provided fields to an existing post. A missing post is reported by
// the store as a condition failure.
func (s *postService) UpdatePost(ctx context.Context, id string, req *UpdatePostRequest) (*models.UpdateResult, error) {
	if req == nil {
		return nil, &models.ValidationError{Field: "body", Message: "request body is required"}
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, toValidationError(err, "%s cannot be empty")
	}

	patch := req.Patch()
	if patch.IsEmpty() {
		return nil, &models.ValidationError{Field: "body", Message: "title or body is required"}
	}

	result, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.WithField("post_id", id).Info("Post updated")
	return result, nil
}

// DeletePost deletes a post by ID without checking that it exists
func (s *postService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.WithField("post_id", id).Info("Post deleted")
	return nil
}

// HealthCheck pings the store
func (s *postService) HealthCheck(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("post store unavailable: %w", err)
	}
	return nil
}

// toValidationError reports the first failing field using format, which takes the field name
func toValidationError(err error, format string) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &models.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf(format, fe.Field()),
			Value:   fe.Value(),
		}
	}
	return fmt.Errorf("validation failed: %w", err)
}
