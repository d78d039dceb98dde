package repositories

import (
	"errors"
	"fmt"
	"net/http"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrConditionFailed is returned when a conditional write's precondition does not hold
	ErrConditionFailed = errors.New("conditional check failed")

	// ErrInvalidID is returned when an invalid ID is provided
	ErrInvalidID = errors.New("invalid ID")

	// ErrValidation is returned when entity validation fails
	ErrValidation = errors.New("validation error")

	// ErrConnection is returned when the store connection fails
	ErrConnection = errors.New("store connection error")

	// ErrUnsupported is returned when an unsupported store type is requested
	ErrUnsupported = errors.New("unsupported operation")
)

// Error codes reported to callers alongside the store status code
const (
	CodeNotFound        = "NotFound"
	CodeConditionFailed = "ConditionalCheckFailed"
	CodeValidation      = "ValidationException"
	CodeInvalidID       = "InvalidKey"
	CodeInternal        = "InternalError"
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op         string // Operation that failed
	Entity     string // Entity type
	ID         string // Entity ID (if applicable)
	Err        error  // Underlying error
	Message    string // Human-readable message
	StatusCode int    // HTTP status code reported by the store
	Code       string // Store error code
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *RepositoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRepositoryError creates a new repository error for an unclassified store failure
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:         op,
		Entity:     entity,
		ID:         id,
		Err:        err,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
	}
}

// NewStoreError creates a repository error carrying the store's own status and code
func NewStoreError(op, entity, id string, err error, statusCode int, code string) *RepositoryError {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	if code == "" {
		code = CodeInternal
	}
	return &RepositoryError{
		Op:         op,
		Entity:     entity,
		ID:         id,
		Err:        err,
		StatusCode: statusCode,
		Code:       code,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:         "get",
		Entity:     entity,
		ID:         id,
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s with ID %s not found", entity, id),
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
	}
}

// ConditionFailedError creates a "conditional check failed" repository error.
// The status mirrors DynamoDB, which answers a failed condition with 400.
func ConditionFailedError(op, entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:         op,
		Entity:     entity,
		ID:         id,
		Err:        ErrConditionFailed,
		Message:    "The conditional request failed",
		StatusCode: http.StatusBadRequest,
		Code:       CodeConditionFailed,
	}
}

// ValidationError creates a "validation" repository error
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:         "validate",
		Entity:     entity,
		ID:         id,
		Err:        ErrValidation,
		Message:    fmt.Sprintf("validation failed for %s: %v", entity, err),
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
	}
}

// InvalidIDError creates an "invalid ID" repository error
func InvalidIDError(op, entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:         op,
		Entity:     entity,
		ID:         id,
		Err:        ErrInvalidID,
		Message:    fmt.Sprintf("invalid %s key: %q", entity, id),
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidID,
	}
}

// ConnectionError creates a "connection" repository error
func ConnectionError(err error) *RepositoryError {
	return &RepositoryError{
		Op:         "connect",
		Entity:     "store",
		Err:        ErrConnection,
		Message:    fmt.Sprintf("store connection failed: %v", err),
		StatusCode: http.StatusServiceUnavailable,
		Code:       CodeInternal,
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return errors.Is(repoErr.Err, ErrNotFound)
	}
	return errors.Is(err, ErrNotFound)
}

// IsConditionFailed checks if an error is a "conditional check failed" error
func IsConditionFailed(err error) bool {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return errors.Is(repoErr.Err, ErrConditionFailed)
	}
	return errors.Is(err, ErrConditionFailed)
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return errors.Is(repoErr.Err, ErrValidation)
	}
	return errors.Is(err, ErrValidation)
}

// StatusCode returns the store status code carried by err, or 500
func StatusCode(err error) int {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) && repoErr.StatusCode != 0 {
		return repoErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ErrorCode returns the store error code carried by err
func ErrorCode(err error) string {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) && repoErr.Code != "" {
		return repoErr.Code
	}
	return CodeInternal
}
