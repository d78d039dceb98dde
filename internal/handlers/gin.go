package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"posts-api/pkg/lambda"
)

// GinHandler adapts a Lambda-style handler to gin. resource is the route template the
// handler is registered under.
func GinHandler(resource string, fn lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			})
			return
		}

		req := &lambda.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Resource:    resource,
			Headers:     firstValues(c.Request.Header),
			QueryParams: firstValues(c.Request.URL.Query()),
			Body:        body,
			PathParams:  make(map[string]string, len(c.Params)),
		}
		for _, param := range c.Params {
			req.PathParams[param.Key] = param.Value
		}

		resp, err := fn(c.Request.Context(), req)
		if err != nil || resp == nil {
			if err != nil {
				_ = c.Error(err)
			}
			c.Data(http.StatusInternalServerError, "application/json", internalErrorBody)
			return
		}

		for key, value := range resp.Headers {
			c.Header(key, value)
		}
		c.Data(resp.StatusCode, "application/json", resp.Body)
	}
}

// ginPath converts a resource template such as /post/{id} into gin's /post/:id
func ginPath(resource string) string {
	segments := strings.Split(resource, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			segments[i] = ":" + segment[1:len(segment)-1]
		}
	}
	return strings.Join(segments, "/")
}

func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}
