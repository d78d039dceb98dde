package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"posts-api/internal/config"
	"posts-api/internal/models"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	SetupMiddleware(engine, &config.ServerConfig{AllowedOrigins: []string{"*"}}, quietLogger())
	SetupRoutes(engine, newTestRouter(t))
	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGinRoutes_CRUD(t *testing.T) {
	engine := newTestEngine(t)

	w := serve(engine, http.MethodPost, "/post", `{"title":"Hello","body":"World"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %s", ct)
	}

	var created models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	w = serve(engine, http.MethodGet, "/post/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200", w.Code)
	}

	w = serve(engine, http.MethodPut, "/post/"+created.ID, `{"body":"Everyone"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"Attributes"`) {
		t.Errorf("update = %d %s", w.Code, w.Body.String())
	}

	w = serve(engine, http.MethodGet, "/posts/1", "")
	var posts []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil || len(posts) != 1 || posts[0].Body != "Everyone" {
		t.Errorf("list n = %d %s", w.Code, w.Body.String())
	}

	w = serve(engine, http.MethodDelete, "/post/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", w.Code)
	}

	w = serve(engine, http.MethodGet, "/posts", "")
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("list after delete = %d %s", w.Code, w.Body.String())
	}
}

func TestGinRoutes_NotFoundAndHealth(t *testing.T) {
	engine := newTestEngine(t)

	w := serve(engine, http.MethodGet, "/nothing/here", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Code)
	}

	w = serve(engine, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestGinPath(t *testing.T) {
	if got := ginPath("/post/{id}"); got != "/post/:id" {
		t.Errorf("ginPath() = %s, want /post/:id", got)
	}
	if got := ginPath("/posts"); got != "/posts" {
		t.Errorf("ginPath() = %s, want /posts", got)
	}
}
