// Package memory provides an in-process post store for tests and local runs.
package memory

import (
	"context"
	"strings"
	"sync"

	"posts-api/internal/models"
	"posts-api/internal/repositories"
)

// PostRepository keeps posts in memory. Safe for concurrent use.
type PostRepository struct {
	mu       sync.RWMutex
	posts    map[string]*models.Post
	order    []string
	failures map[string]error
}

// NewPostRepository creates an empty in-memory post repository
func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:    make(map[string]*models.Post),
		failures: make(map[string]error),
	}
}

// FailWith makes every subsequent call of op ("put", "scan", "get", "update", "delete", "ping")
// return err. A nil err clears the failure.
func (r *PostRepository) FailWith(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

// Put inserts or replaces a post
func (r *PostRepository) Put(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check("put", post.ID); err != nil {
		return err
	}

	if _, exists := r.posts[post.ID]; !exists {
		r.order = append(r.order, post.ID)
	}
	r.posts[post.ID] = post.Clone()
	return nil
}

// Scan returns up to limit posts, newest first
func (r *PostRepository) Scan(ctx context.Context, limit int) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.failure("scan"); err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(r.order))
	for _, id := range r.order {
		posts = append(posts, r.posts[id].Clone())
	}
	models.SortByCreatedAtDesc(posts)

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// Get retrieves a post by ID
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.check("get", id); err != nil {
		return nil, err
	}

	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.NotFoundError("post", id)
	}
	return post.Clone(), nil
}

// Update applies the patch to an existing post
func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check("update", id); err != nil {
		return nil, err
	}

	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ConditionFailedError("update", "post", id)
	}
	post.Apply(patch)
	return &models.UpdateResult{Attributes: post.Clone()}, nil
}

// Delete removes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check("delete", id); err != nil {
		return err
	}

	if _, ok := r.posts[id]; !ok {
		return nil
	}
	delete(r.posts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping reports the failure injected for "ping", if any
func (r *PostRepository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.failure("ping")
}

// Close is a no-op
func (r *PostRepository) Close() error {
	return nil
}

// check must be called with r.mu held
func (r *PostRepository) check(op, id string) error {
	if err := r.failure(op); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return repositories.InvalidIDError(op, "post", id)
	}
	return nil
}

func (r *PostRepository) failure(op string) error {
	return r.failures[op]
}
