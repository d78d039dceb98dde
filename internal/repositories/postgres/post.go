// Package postgres implements the post store on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"posts-api/internal/models"
	"posts-api/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const postColumns = "id, created_at, user_id, title, body"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostRepository implements the PostRepository interface for PostgreSQL
type PostRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *logrus.Logger
}

// NewPool creates a connection pool for dsn and verifies it with a ping
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, repositories.ConnectionError(err)
	}
	return pool, nil
}

// NewPostRepository creates a PostgreSQL post repository over the given table
func NewPostRepository(pool *pgxpool.Pool, table string, logger *logrus.Logger) (*PostRepository, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostRepository{
		pool:   pool,
		table:  table,
		logger: logger,
	}, nil
}

// EnsureSchema creates the posts table and its listing index if they do not exist
func (r *PostRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			title TEXT,
			body TEXT
		)`, r.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_created_at_idx ON %s (created_at DESC)", r.table, r.table),
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure posts schema: %w", err)
		}
	}
	return nil
}

// Put inserts or replaces a post
func (r *PostRepository) Put(ctx context.Context, post *models.Post) error {
	if strings.TrimSpace(post.ID) == "" {
		return repositories.InvalidIDError("put", "post", post.ID)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			user_id = EXCLUDED.user_id,
			title = EXCLUDED.title,
			body = EXCLUDED.body`, r.table, postColumns)

	start := time.Now()
	_, err := r.pool.Exec(ctx, query, post.ID, post.CreatedAt, post.UserID, post.Title, post.Body)
	r.logQuery("put", start, err)
	if err != nil {
		return translateError("put", post.ID, err)
	}
	return nil
}

// Scan retrieves up to limit posts, newest first
func (r *PostRepository) Scan(ctx context.Context, limit int) ([]*models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC", postColumns, r.table)

	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logQuery("scan", start, err)
		return nil, translateError("scan", "", err)
	}

	posts, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Post])
	r.logQuery("scan", start, err)
	if err != nil {
		return nil, translateError("scan", "", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

// Get retrieves a post by ID
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.InvalidIDError("get", "post", id)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", postColumns, r.table)

	start := time.Now()
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		r.logQuery("get", start, err)
		return nil, translateError("get", id, err)
	}

	post, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Post])
	if errors.Is(err, pgx.ErrNoRows) {
		r.logQuery("get", start, nil)
		return nil, repositories.NotFoundError("post", id)
	}
	r.logQuery("get", start, err)
	if err != nil {
		return nil, translateError("get", id, err)
	}
	return post, nil
}

// Update writes the patch to an existing post and returns the updated row
func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.UpdateResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.InvalidIDError("update", "post", id)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = COALESCE($1, title), body = COALESCE($2, body)
		WHERE id = $3
		RETURNING %s`, r.table, postColumns)

	var title, body *string
	if patch != nil {
		title, body = patch.Title, patch.Body
	}

	start := time.Now()
	rows, err := r.pool.Query(ctx, query, title, body, id)
	if err != nil {
		r.logQuery("update", start, err)
		return nil, translateError("update", id, err)
	}

	post, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Post])
	if errors.Is(err, pgx.ErrNoRows) {
		r.logQuery("update", start, nil)
		return nil, repositories.ConditionFailedError("update", "post", id)
	}
	r.logQuery("update", start, err)
	if err != nil {
		return nil, translateError("update", id, err)
	}
	return &models.UpdateResult{Attributes: post}, nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.InvalidIDError("delete", "post", id)
	}

	start := time.Now()
	_, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	r.logQuery("delete", start, err)
	if err != nil {
		return translateError("delete", id, err)
	}
	return nil
}

// Ping acquires a pooled connection and pings the server
func (r *PostRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.pool.Ping(ctx)
	r.logQuery("ping", start, err)
	if err != nil {
		return repositories.NewStoreError("ping", "post", "", err, http.StatusServiceUnavailable, "")
	}
	return nil
}

// Close closes the connection pool
func (r *PostRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostRepository) logQuery(operation string, start time.Time, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"duration":  time.Since(start),
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// translateError maps PostgreSQL SQLSTATE classes onto HTTP statuses: data exceptions (22)
// and integrity violations (23) are caller errors, connection exceptions (08) are 503.
func translateError(op, id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		status := http.StatusInternalServerError
		switch {
		case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
			status = http.StatusBadRequest
		case strings.HasPrefix(pgErr.Code, "08"):
			status = http.StatusServiceUnavailable
		}
		return repositories.NewStoreError(op, "post", id, err, status, pgErr.Code)
	}

	if pgconn.Timeout(err) {
		return repositories.NewStoreError(op, "post", id, err, http.StatusGatewayTimeout, "Timeout")
	}

	return repositories.NewRepositoryError(op, "post", id, err)
}
