package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"posts-api/internal/models"
	"posts-api/internal/repositories"
	"posts-api/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// errorResponse maps err onto a response: validation failures are 400, store failures carry
// the store's status and code. The full error is logged, only its summary is returned.
func errorResponse(logger *logrus.Logger, summary string, err error) *lambda.Response {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		logger.WithFields(logrus.Fields{
			"field": validationErr.Field,
		}).Warn(validationErr.Message)

		return Respond(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation error",
			Message: validationErr.Message,
		})
	}

	status := repositories.StatusCode(err)
	code := repositories.ErrorCode(err)

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status": status,
		"code":   code,
	})
	if status >= http.StatusInternalServerError {
		entry.Error(summary)
	} else {
		entry.Warn(summary)
	}

	return Respond(status, ErrorResponse{
		Error:   summary,
		Message: storeMessage(err),
		Code:    code,
	})
}

// storeMessage returns the message the store attached to err
func storeMessage(err error) string {
	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) {
		if repoErr.Message != "" {
			return repoErr.Message
		}
		if repoErr.Err != nil {
			return repoErr.Err.Error()
		}
	}
	return err.Error()
}
