package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"posts-api/internal/config"
	"posts-api/internal/models"
	"posts-api/internal/repositories"
	"posts-api/internal/repositories/dynamo"
	"posts-api/internal/repositories/memory"
	"posts-api/internal/repositories/sqlite"
)

func TestNewPostRepository_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Type: config.StoreMemory, Table: "posts"}}

	repo, err := NewPostRepository(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("NewPostRepository() failed: %v", err)
	}
	defer repo.Close()

	if _, ok := repo.(*memory.PostRepository); !ok {
		t.Errorf("repository type = %T, want *memory.PostRepository", repo)
	}
}

func TestNewPostRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Store:    config.StoreConfig{Type: config.StoreSQLite, Table: SQLiteTable},
		Database: *testDatabaseConfig(t, true),
	}

	repo, err := NewPostRepository(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewPostRepository() failed: %v", err)
	}
	defer repo.Close()

	if _, ok := repo.(*sqlite.PostRepository); !ok {
		t.Errorf("repository type = %T, want *sqlite.PostRepository", repo)
	}

	post := models.NewPost(1, "title", "body", time.Now())
	if err := repo.Put(ctx, post); err != nil {
		t.Fatalf("Put() on migrated schema failed: %v", err)
	}
	got, err := repo.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if *got != *post {
		t.Errorf("Get() = %+v, want %+v", got, post)
	}
}

func TestNewPostRepository_SQLiteRejectsOtherTable(t *testing.T) {
	cfg := &config.Config{
		Store:    config.StoreConfig{Type: config.StoreSQLite, Table: "articles"},
		Database: *testDatabaseConfig(t, true),
	}

	if _, err := NewPostRepository(context.Background(), cfg, testLogger()); err == nil {
		t.Error("NewPostRepository() should reject a table the migrations do not create")
	}
}

func TestNewPostRepository_DynamoDB(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg := &config.Config{
		Store:  config.StoreConfig{Type: config.StoreDynamoDB, Table: "posts"},
		Dynamo: config.DynamoConfig{Region: "us-east-1", Endpoint: "http://localhost:8000"},
	}

	repo, err := NewPostRepository(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("NewPostRepository() failed: %v", err)
	}
	defer repo.Close()

	if _, ok := repo.(*dynamo.PostRepository); !ok {
		t.Errorf("repository type = %T, want *dynamo.PostRepository", repo)
	}
}

func TestNewPostRepository_Unsupported(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Type: "cassandra", Table: "posts"}}

	_, err := NewPostRepository(context.Background(), cfg, testLogger())
	if !errors.Is(err, repositories.ErrUnsupported) {
		t.Errorf("NewPostRepository() error = %v, want ErrUnsupported", err)
	}
}
