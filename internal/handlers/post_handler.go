package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"posts-api/internal/config"
	"posts-api/internal/models"
	"posts-api/internal/repositories"
	"posts-api/internal/services"
	"posts-api/pkg/lambda"
)

// PostHandler handles post requests
type PostHandler struct {
	postService services.PostService
	logger      *logrus.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService services.PostService, logger *logrus.Logger) *PostHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// HandleCreate godoc
// @Summary Create a post
// @Description Create a post owned by the current user
// @Tags posts
// @Accept json
// @Produce json
// @Param post body services.CreatePostRequest true "Post data"
// @Success 201 {object} models.Post
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /post [post]
func (h *PostHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.CreatePostRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return invalidBody(err), nil
	}

	post, err := h.postService.CreatePost(ctx, &body)
	if err != nil {
		return errorResponse(h.logger, "Failed to create post", err), nil
	}

	return Respond(http.StatusCreated, post), nil
}

// HandleList godoc
// @Summary List posts
// @Description List every post, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} ErrorResponse
// @Router /posts [get]
func (h *PostHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.list(ctx, 0), nil
}

// HandleListN godoc
// @Summary List N posts
// @Description Scan at most number posts and return them newest first
// @Tags posts
// @Produce json
// @Param number path int true "Maximum number of posts"
// @Success 200 {array} models.Post
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /posts/{number} [get]
func (h *PostHandler) HandleListN(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	raw := req.PathParams["number"]
	number, err := strconv.Atoi(raw)
	if err != nil {
		return errorResponse(h.logger, "Validation error", &models.ValidationError{
			Field:   "number",
			Message: "number must be a positive integer",
			Value:   raw,
		}), nil
	}
	if err := models.ValidatePositiveInteger(number, "number"); err != nil {
		return errorResponse(h.logger, "Validation error", err), nil
	}
	if number > math.MaxInt32 {
		return errorResponse(h.logger, "Validation error", &models.ValidationError{
			Field:   "number",
			Message: fmt.Sprintf("number must not exceed %d", math.MaxInt32),
			Value:   raw,
		}), nil
	}

	return h.list(ctx, number), nil
}

func (h *PostHandler) list(ctx context.Context, limit int) *lambda.Response {
	posts, err := h.postService.ListPosts(ctx, limit)
	if err != nil {
		return errorResponse(h.logger, "Failed to list posts", err)
	}
	return Respond(http.StatusOK, posts)
}

// HandleGet godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /post/{id} [get]
func (h *PostHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id := req.PathParams["id"]

	post, err := h.postService.GetPost(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return Respond(http.StatusNotFound, ErrorResponse{Error: "Post not found"}), nil
		}
		return errorResponse(h.logger, "Failed to get post", err), nil
	}

	return Respond(http.StatusOK, post), nil
}

// HandleUpdate godoc
// @Summary Update a post
// @Description Update the title and/or body of an existing post. Updating a missing post
// @Description fails the store's existence condition (400 ConditionalCheckFailed).
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body services.UpdatePostRequest true "Fields to update"
// @Success 200 {object} models.UpdateResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /post/{id} [put]
func (h *PostHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.UpdatePostRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return invalidBody(err), nil
	}

	result, err := h.postService.UpdatePost(ctx, req.PathParams["id"], &body)
	if err != nil {
		return errorResponse(h.logger, "Failed to update post", err), nil
	}

	return Respond(http.StatusOK, result), nil
}

// HandleDelete godoc
// @Summary Delete a post
// @Description Delete a post. Deleting a missing post also succeeds.
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /post/{id} [delete]
func (h *PostHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if err := h.postService.DeletePost(ctx, req.PathParams["id"]); err != nil {
		return errorResponse(h.logger, "Failed to delete post", err), nil
	}

	return Respond(http.StatusOK, MessageResponse{Message: "Post deleted successfully"}), nil
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Mode    string `json:"mode"`
	Error   string `json:"error,omitempty"`
}

// HandleHealth godoc
// @Summary Health check
// @Description Reports whether the post store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *PostHandler) HandleHealth(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	health := HealthResponse{
		Status:  "healthy",
		Service: "posts-api",
		Mode:    config.GetDeploymentMode(),
	}

	if err := h.postService.HealthCheck(ctx); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		health.Status = "unhealthy"
		health.Error = storeMessage(err)
		return Respond(http.StatusServiceUnavailable, health), nil
	}

	return Respond(http.StatusOK, health), nil
}

func invalidBody(err error) *lambda.Response {
	return Respond(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request body",
		Message: err.Error(),
	})
}
