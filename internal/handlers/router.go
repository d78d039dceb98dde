package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"posts-api/pkg/lambda"
)

// Operation names. Each is also the value POSTS_FUNCTION takes to pin a deployment.
const (
	OpCreatePost = "createPost"
	OpListPosts  = "listPosts"
	OpListNPosts = "listNPosts"
	OpGetPost    = "getPost"
	OpUpdatePost = "updatePost"
	OpDeletePost = "deletePost"
)

// Route binds an operation to a method and resource template
type Route struct {
	Name     string
	Method   string
	Resource string
	Handler  lambda.HandlerFunc
}

// Router dispatches requests to the post operations
type Router struct {
	routes []Route
	health lambda.HandlerFunc
	pinned *Route
	logger *logrus.Logger
}

// NewRouter creates a router over the post handler
func NewRouter(h *PostHandler, logger *logrus.Logger) *Router {
	if logger == nil {
		logger = logrus.New()
	}
	return &Router{
		routes: []Route{
			{OpCreatePost, http.MethodPost, "/post", h.HandleCreate},
			{OpListPosts, http.MethodGet, "/posts", h.HandleList},
			{OpListNPosts, http.MethodGet, "/posts/{number}", h.HandleListN},
			{OpGetPost, http.MethodGet, "/post/{id}", h.HandleGet},
			{OpUpdatePost, http.MethodPut, "/post/{id}", h.HandleUpdate},
			{OpDeletePost, http.MethodDelete, "/post/{id}", h.HandleDelete},
		},
		health: h.HandleHealth,
		logger: logger,
	}
}

// Routes returns the route table
func (r *Router) Routes() []Route {
	return r.routes
}

// Health returns the store health check. It is served beside the route table, not in it.
func (r *Router) Health() lambda.HandlerFunc {
	return r.health
}

// Pin sends every request to the named operation regardless of method and path.
// An empty name restores table routing.
func (r *Router) Pin(name string) error {
	if name == "" {
		r.pinned = nil
		return nil
	}
	for i := range r.routes {
		if r.routes[i].Name == name {
			r.pinned = &r.routes[i]
			return nil
		}
	}
	return fmt.Errorf("unknown post operation %q", name)
}

// Dispatch routes req and runs the matching operation. It never returns a nil response.
func (r *Router) Dispatch(ctx context.Context, req *lambda.Request) *lambda.Response {
	route := r.pinned
	if route == nil {
		route = r.match(req)
	}
	if route == nil {
		return Respond(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	}

	resp, err := route.Handler(ctx, req)
	if err != nil || resp == nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"operation": route.Name,
			"method":    req.Method,
			"path":      req.Path,
		}).Error("Handler failed")
		return &lambda.Response{StatusCode: http.StatusInternalServerError, Body: internalErrorBody}
	}
	return resp
}

// match finds the route for req, preferring the API Gateway resource template and falling
// back to matching the raw path. Path parameters found in the path are added to req.
func (r *Router) match(req *lambda.Request) *Route {
	for i := range r.routes {
		route := &r.routes[i]
		if route.Method != req.Method {
			continue
		}
		if req.Resource != "" {
			if req.Resource == route.Resource {
				return route
			}
			continue
		}
		if params, ok := matchResource(route.Resource, req.Path); ok {
			if req.PathParams == nil {
				req.PathParams = make(map[string]string, len(params))
			}
			for name, value := range params {
				if _, set := req.PathParams[name]; !set {
					req.PathParams[name] = value
				}
			}
			return route
		}
	}
	return nil
}

// matchResource matches path against a template such as /post/{id}
func matchResource(template, path string) (map[string]string, bool) {
	want := strings.Split(strings.Trim(template, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return nil, false
	}

	params := make(map[string]string)
	for i, segment := range want {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			if got[i] == "" {
				return nil, false
			}
			params[segment[1:len(segment)-1]] = got[i]
			continue
		}
		if segment != got[i] {
			return nil, false
		}
	}
	return params, true
}
