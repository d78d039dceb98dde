package models

import (
	"time"
)

const (
	// TimestampLayout is the ISO-8601 layout used for createdAt. Its fixed width keeps
	// lexicographic and chronological order identical.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	// DefaultUserID is the owner assigned to posts until an identity provider is wired in
	DefaultUserID = 1
)

// FormatTimestamp formats t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a createdAt value
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(TimestampLayout, value)
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}
