package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"posts-api/internal/models"
	"posts-api/internal/repositories"
)

func TestPostRepository_CRUD(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	post := models.NewPost(1, "title", "body", time.Now())
	if err := repo.Put(ctx, post); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	// Mutating the caller's copy must not leak into the store
	post.Title = "mutated"

	got, err := repo.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Title != "title" {
		t.Errorf("Get() title = %s, want title", got.Title)
	}

	body := "new body"
	result, err := repo.Update(ctx, post.ID, &models.PostPatch{Body: &body})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if result.Attributes.Body != "new body" || result.Attributes.Title != "title" {
		t.Errorf("Update() result = %+v", result.Attributes)
	}

	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.Get(ctx, post.ID); !repositories.IsNotFound(err) {
		t.Errorf("Get() after Delete() error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Errorf("second Delete() failed: %v", err)
	}
}

func TestPostRepository_UpdateMissing(t *testing.T) {
	repo := NewPostRepository()

	_, err := repo.Update(context.Background(), "missing", &models.PostPatch{})
	if !repositories.IsConditionFailed(err) {
		t.Errorf("Update() error = %v, want condition failure", err)
	}
}

func TestPostRepository_ScanLimit(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"t1", "t2", "t3"} {
		if err := repo.Put(ctx, models.NewPost(1, title, "b", base.Add(time.Duration(i)*time.Hour))); err != nil {
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
}

func TestPostRepository_FailWith(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	injected := repositories.NewStoreError("scan", "post", "", errors.New("throttled"), 400, "ProvisionedThroughputExceededException")

	repo.FailWith("scan", injected)
	if _, err := repo.Scan(ctx, 0); !errors.Is(err, injected) {
		t.Errorf("Scan() error = %v, want injected error", err)
	}

	repo.FailWith("scan", nil)
	if _, err := repo.Scan(ctx, 0); err != nil {
		t.Errorf("Scan() after clearing failure: %v", err)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Errorf("Ping() = %v, want nil", err)
	}
	repo.FailWith("ping", repositories.ConnectionError(errors.New("down")))
	if err := repo.Ping(ctx); err == nil {
		t.Error("Ping() should return the injected failure")
	}
}

func TestPostRepository_Concurrent(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Put(ctx, models.NewPost(1, "t", "b", time.Now()))
			_, _ = repo.Scan(ctx, 5)
		}()
	}
	wg.Wait()

	posts, err := repo.Scan(ctx, 0)
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(posts) != 50 {
		t.Errorf("Scan() returned %d posts, want 50", len(posts))
	}
}
