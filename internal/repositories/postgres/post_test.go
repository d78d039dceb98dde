package postgres

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"posts-api/internal/models"
	"posts-api/internal/repositories"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusBadRequest, "23505"},
		{"invalid text", &pgconn.PgError{Code: "22P02"}, http.StatusBadRequest, "22P02"},
		{"connection failure", &pgconn.PgError{Code: "08006"}, http.StatusServiceUnavailable, "08006"},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, http.StatusInternalServerError, "42P01"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, repositories.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError("get", "id", tt.err)
			if got := repositories.StatusCode(err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if got := repositories.ErrorCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestNewPostRepository_InvalidTable(t *testing.T) {
	if _, err := NewPostRepository(nil, "posts where 1=1", nil); err == nil {
		t.Error("NewPostRepository() should reject invalid table names")
	}
}

// TestPostRepository_Integration runs against a live database when POSTS_TEST_PG_DSN is set
func TestPostRepository_Integration(t *testing.T) {
	dsn := os.Getenv("POSTS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("POSTS_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("NewPool() failed: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	table := "posts_test_" + time.Now().Format("150405")
	repo, err := NewPostRepository(pool, table, logger)
	if err != nil {
		t.Fatalf("NewPostRepository() failed: %v", err)
	}
	defer func() {
		_, _ = pool.Exec(ctx, "DROP TABLE IF EXISTS "+table)
		repo.Close()
	}()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() failed: %v", err)
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

	title := "changed"
	result, err := repo.Update(ctx, last.ID, &models.PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if result.Attributes.Title != "changed" || result.Attributes.Body != "body" {
		t.Errorf("Update() result = %+v", result.Attributes)
	}

	if _, err := repo.Update(ctx, "missing", &models.PostPatch{Title: &title}); !repositories.IsConditionFailed(err) {
		t.Errorf("Update() of missing post error = %v, want condition failure", err)
	}

	if err := repo.Delete(ctx, last.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.Get(ctx, last.ID); !repositories.IsNotFound(err) {
		t.Errorf("Get() after Delete() error = %v, want not found", err)
	}
}
