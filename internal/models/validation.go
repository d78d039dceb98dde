package models

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fieldName + " is required",
			Value:   value,
		}
	}
	return nil
}

// ValidateOptional checks that an optional string field, when present, is not blank
func ValidateOptional(value *string, fieldName string) error {
	if value == nil {
		return nil
	}
	if strings.TrimSpace(*value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fieldName + " cannot be empty",
			Value:   *value,
		}
	}
	return nil
}

// ValidatePositiveInteger validates that an integer is positive
func ValidatePositiveInteger(value int, fieldName string) error {
	if value <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fieldName + " must be greater than 0",
			Value:   value,
		}
	}
	return nil
}

// ValidateTimestamp validates that value is a createdAt timestamp
func ValidateTimestamp(value, fieldName string) error {
	if _, err := ParseTimestamp(value); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be an ISO-8601 timestamp", fieldName),
			Value:   value,
		}
	}
	return nil
}
