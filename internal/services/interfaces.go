package services

import (
	"context"

	"posts-api/internal/models"
)

// PostService defines the interface for post business logic operations
type PostService interface {
	CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error)
	// ListPosts returns up to limit posts newest first; limit 0 means all
	ListPosts(ctx context.Context, limit int) ([]*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, req *UpdatePostRequest) (*models.UpdateResult, error)
	DeletePost(ctx context.Context, id string) error
	// HealthCheck reports whether the post store is reachable
	HealthCheck(ctx context.Context) error
}

// IdentityProvider resolves the user that owns newly created posts
type IdentityProvider interface {
	UserID(ctx context.Context) (int, error)
}

// CreatePostRequest represents a request to create a post
type CreatePostRequest struct {
	Title string `json:"title" validate:"notblank"`
	Body  string `json:"body" validate:"notblank"`
}

// UpdatePostRequest represents a request to update a post. Omitted fields keep their stored value.
type UpdatePostRequest struct {
	Title *string `json:"title" validate:"omitnil,notblank"`
	Body  *string `json:"body" validate:"omitnil,notblank"`
}

// Patch converts the request into a store patch
func (r *UpdatePostRequest) Patch() *models.PostPatch {
	return &models.PostPatch{
		Title: r.Title,
		Body:  r.Body,
	}
}
