package repositories

import (
	"context"

	"posts-api/internal/models"
)

// PostRepository is the record store adapter for posts. Each method performs a single
// store call.
type PostRepository interface {
	// Put unconditionally writes a post, replacing any record with the same ID
	Put(ctx context.Context, post *models.Post) error

	// Scan returns up to limit posts, or every post when limit <= 0
	Scan(ctx context.Context, limit int) ([]*models.Post, error)

	// Get retrieves a post by ID. A missing post yields a NotFoundError.
	Get(ctx context.Context, id string) (*models.Post, error)

	// Update writes the patch to an existing post and returns the post after the update.
	// A missing post yields a ConditionFailedError.
	Update(ctx context.Context, id string, patch *models.PostPatch) (*models.UpdateResult, error)

	// Delete removes a post by ID. Deleting a missing post is not an error.
	Delete(ctx context.Context, id string) error

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error

	// Close releases the store client
	Close() error
}
