package handlers

import (
	"encoding/json"
	"net/http"

	"posts-api/pkg/lambda"
)

var internalErrorBody = []byte(`{"error":"Internal server error"}`)

// Respond builds a response whose body is the JSON encoding of payload
func Respond(statusCode int, payload interface{}) *lambda.Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return &lambda.Response{StatusCode: http.StatusInternalServerError, Body: internalErrorBody}
	}
	return &lambda.Response{StatusCode: statusCode, Body: body}
}
