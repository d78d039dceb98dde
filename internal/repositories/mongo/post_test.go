package mongo

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"posts-api/internal/models"
	"posts-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "duplicate key",
			err:        mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "DuplicateKey",
		},
		{
			name:       "command error",
			err:        mongo.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "Unauthorized",
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "Timeout",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   repositories.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError("put", "id", tt.err)
			if got := repositories.StatusCode(err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if got := repositories.ErrorCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

// TestPostRepository_Integration runs against a live server when POSTS_TEST_MONGO_URI is set
func TestPostRepository_Integration(t *testing.T) {
	uri := os.Getenv("POSTS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("POSTS_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, uri)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	collection := "posts_test_" + time.Now().Format("150405")
	repo := NewPostRepository(client, "posts_test", collection, logger)
	defer func() {
		_ = repo.collection.Drop(ctx)
		repo.Close()
	}()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() failed: %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var last *models.Post
	for i, title := range []string{"t1", "t2", "t3"} {
		last = models.NewPost(1, title, "body", base.Add(time.Duration(i)*time.Second))
		if err := repo.Put(ctx, last); err != nil {
			t.Fatalf("Put() failed: %v", err)
		}
	}

	posts, err := repo.Scan(ctx, 2)
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "t3" || posts[1].Title != "t2" {
		t.Errorf("Scan(2) = %v", posts)
	}

	got, err := repo.Get(ctx, last.ID)
	if err != nil || *got != *last {
		t.Errorf("Get() = %+v, %v; want %+v", got, err, last)
	}

	body := "changed"
	result, err := repo.Update(ctx, last.ID, &models.PostPatch{Body: &body})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if result.Attributes.Body != "changed" || result.Attributes.Title != "t3" {
		t.Errorf("Update() result = %+v", result.Attributes)
	}

	if _, err := repo.Update(ctx, "missing", &models.PostPatch{Body: &body}); !repositories.IsConditionFailed(err) {
		t.Errorf("Update() of missing post error = %v, want condition failure", err)
	}

	if err := repo.Delete(ctx, last.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.Get(ctx, last.ID); !repositories.IsNotFound(err) {
		t.Errorf("Get() after Delete() error = %v, want not found", err)
	}
}
