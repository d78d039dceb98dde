package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"posts-api/internal/models"
	"posts-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const postColumns = "id, created_at, user_id, title, body"

// PostRepository implements the PostRepository interface for SQLite
type PostRepository struct {
	*BaseRepository[models.Post]
}

// NewPostRepository creates a new SQLite post repository over the given table
func NewPostRepository(db *sql.DB, table string, logger *logrus.Logger) (repositories.PostRepository, error) {
	base, err := NewBaseRepository[models.Post](db, table, "post", logger)
	if err != nil {
		return nil, err
	}
	return &PostRepository{BaseRepository: base}, nil
}

// Put inserts or replaces a post
func (r *PostRepository) Put(ctx context.Context, post *models.Post) error {
	if err := r.validateID("put", post.ID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (%s)
		VALUES (?, ?, ?, ?, ?)`, r.table, postColumns)

	_, err := r.executeExec(ctx, "put", query,
		post.ID,
		post.CreatedAt,
		post.UserID,
		post.Title,
		post.Body,
	)
	return err
}

// Scan retrieves up to limit posts, newest first
func (r *PostRepository) Scan(ctx context.Context, limit int) ([]*models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC", postColumns, r.table)

	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.executeQuery(ctx, "scan", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("scan", r.entity, "", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", r.entity, "", err)
	}

	return posts, nil
}

// Get retrieves a post by ID
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	if err := r.validateID("get", id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", postColumns, r.table)

	post, err := scanPost(r.executeQueryRow(ctx, "get", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError(r.entity, id)
		}
		return nil, repositories.NewRepositoryError("get", r.entity, id, err)
	}

	return post, nil
}

// Update writes the patch to an existing post. Unset patch fields keep their stored values.
func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.UpdateResult, error) {
	if err := r.validateID("update", id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = COALESCE(?, title), body = COALESCE(?, body)
		WHERE id = ?
		RETURNING %s`, r.table, postColumns)

	var title, body sql.NullString
	if patch != nil && patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	if patch != nil && patch.Body != nil {
		body = sql.NullString{String: *patch.Body, Valid: true}
	}

	post, err := scanPost(r.executeQueryRow(ctx, "update", query, title, body, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ConditionFailedError("update", r.entity, id)
		}
		return nil, repositories.NewRepositoryError("update", r.entity, id, err)
	}

	return &models.UpdateResult{Attributes: post}, nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID("delete", id); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
	_, err := r.executeExec(ctx, "delete", query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(
		&post.ID,
		&post.CreatedAt,
		&post.UserID,
		&post.Title,
		&post.Body,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}
