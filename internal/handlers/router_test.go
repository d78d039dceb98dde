package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"posts-api/pkg/lambda"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	h, _ := newTestHandler(t)
	return NewRouter(h, quietLogger())
}

func TestRouter_DispatchByResource(t *testing.T) {
	router := newTestRouter(t)
	ctx := context.Background()

	resp := router.Dispatch(ctx, &lambda.Request{Method: "POST", Resource: "/post", Body: []byte(`{"title":"t","body":"b"}`)})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	resp = router.Dispatch(ctx, &lambda.Request{Method: "GET", Resource: "/posts"})
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(resp.Body), "[{") {
		t.Errorf("list = %d %s", resp.StatusCode, resp.Body)
	}

	resp = router.Dispatch(ctx, &lambda.Request{Method: "GET", Resource: "/post/{id}", PathParams: map[string]string{"id": "missing"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get missing status = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_DispatchByPath(t *testing.T) {
	router := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list", "GET", "/posts", http.StatusOK},
		{"list n", "GET", "/posts/5", http.StatusOK},
		{"list n invalid", "GET", "/posts/five", http.StatusBadRequest},
		{"get", "GET", "/post/abc", http.StatusNotFound},
		{"delete", "DELETE", "/post/abc", http.StatusOK},
		{"update missing", "PUT", "/post/abc", http.StatusBadRequest},
		{"wrong method", "PATCH", "/post/abc", http.StatusNotFound},
		{"unknown path", "GET", "/users", http.StatusNotFound},
		{"extra segment", "GET", "/post/abc/comments", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := router.Dispatch(ctx, &lambda.Request{Method: tt.method, Path: tt.path, Body: []byte(`{"title":"t"}`)})
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d; body %s", resp.StatusCode, tt.want, resp.Body)
			}
		})
	}
}

func TestRouter_NotFoundBody(t *testing.T) {
	router := newTestRouter(t)

	resp := router.Dispatch(context.Background(), &lambda.Request{Method: "GET", Resource: "/nothing"})
	if resp.StatusCode != http.StatusNotFound || string(resp.Body) != `{"error":"Not found"}` {
		t.Errorf("unknown route = %d %s", resp.StatusCode, resp.Body)
	}
}

func TestRouter_Pin(t *testing.T) {
	router := newTestRouter(t)
	ctx := context.Background()

	if err := router.Pin("dropTable"); err == nil {
		t.Error("Pin() should reject unknown operations")
	}

	if err := router.Pin(OpDeletePost); err != nil {
		t.Fatalf("Pin() failed: %v", err)
	}

	// Method and path are ignored once pinned
	resp := router.Dispatch(ctx, &lambda.Request{Method: "GET", Path: "/anything", PathParams: map[string]string{"id": "x"}})
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(resp.Body), "Post deleted successfully") {
		t.Errorf("pinned dispatch = %d %s", resp.StatusCode, resp.Body)
	}

	if err := router.Pin(""); err != nil {
		t.Fatalf("Pin(\"\") failed: %v", err)
	}
	resp = router.Dispatch(ctx, &lambda.Request{Method: "GET", Path: "/anything"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unpinned dispatch status = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_HandlerError(t *testing.T) {
	router := &Router{
		routes: []Route{{
			Name:     "broken",
			Method:   "GET",
			Resource: "/broken",
			Handler: func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
				return nil, errors.New("bug")
			},
		}},
		logger: quietLogger(),
	}

	resp := router.Dispatch(context.Background(), &lambda.Request{Method: "GET", Path: "/broken"})
	if resp.StatusCode != http.StatusInternalServerError || string(resp.Body) != `{"error":"Internal server error"}` {
		t.Errorf("handler error = %d %s", resp.StatusCode, resp.Body)
	}
}

func TestRouter_RoutesCoverOperations(t *testing.T) {
	router := newTestRouter(t)

	names := map[string]bool{}
	for _, route := range router.Routes() {
		names[route.Name] = true
	}
	for _, op := range []string{OpCreatePost, OpListPosts, OpListNPosts, OpGetPost, OpUpdatePost, OpDeletePost} {
		if !names[op] {
			t.Errorf("route table missing %s", op)
		}
	}
}

func TestMatchResource(t *testing.T) {
	params, ok := matchResource("/post/{id}", "/post/123/")
	if !ok || params["id"] != "123" {
		t.Errorf("matchResource() = %v, %v", params, ok)
	}

	if _, ok := matchResource("/post/{id}", "/post/"); ok {
		t.Error("empty parameter should not match")
	}
	if _, ok := matchResource("/posts", "/post"); ok {
		t.Error("different literal should not match")
	}
}
