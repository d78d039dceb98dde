package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"posts-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BaseRepository provides common functionality for all SQLite repositories
type BaseRepository[T any] struct {
	db     *sql.DB
	table  string
	entity string
	logger *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository[T any](db *sql.DB, table, entity string, logger *logrus.Logger) (*BaseRepository[T], error) {
	if logger == nil {
		logger = logrus.New()
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &BaseRepository[T]{
		db:     db,
		table:  table,
		entity: entity,
		logger: logger,
	}, nil
}

// Ping checks the connection and that the table can be read
func (r *BaseRepository[T]) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return repositories.NewStoreError("ping", r.entity, "", err, http.StatusServiceUnavailable, "")
	}

	query := fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", r.table)

	var one int
	err := r.executeQueryRow(ctx, "ping", query).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return repositories.NewStoreError("ping", r.entity, "", err, http.StatusServiceUnavailable, "")
	}

	return nil
}

// Close closes the underlying database handle
func (r *BaseRepository[T]) Close() error {
	return r.db.Close()
}

// logQuery logs a query with its execution time
func (r *BaseRepository[T]) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     strings.Join(strings.Fields(query), " "),
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository[T]) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, "", err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository[T]) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, row.Err())

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository[T]) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, "", err)
	}

	return result, nil
}

// validateID validates that an ID is not empty
func (r *BaseRepository[T]) validateID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.InvalidIDError(op, r.entity, id)
	}
	return nil
}
