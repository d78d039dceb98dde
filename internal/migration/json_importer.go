package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"posts-api/internal/models"
	"posts-api/internal/repositories"
)

// JSONImporter moves posts between JSON dump files and a post store
type JSONImporter struct {
	repo          repositories.PostRepository
	logger        *logrus.Logger
	defaultUserID int
	now           func() time.Time
}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter(repo repositories.PostRepository, defaultUserID int, logger *logrus.Logger) *JSONImporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &JSONImporter{
		repo:          repo,
		logger:        logger,
		defaultUserID: defaultUserID,
		now:           time.Now,
	}
}

// ImportResult contains the results of an import
type ImportResult struct {
	Processed int
	Imported  int
	Skipped   int
	Errors    []string
	Warnings  []string
}

// LoadFile reads a JSON array of posts from path
func LoadFile(path string) ([]*models.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a JSON array of posts
func Decode(r io.Reader) ([]*models.Post, error) {
	var posts []*models.Post
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// Import normalizes and validates each post, then writes the valid ones. With dryRun set
// nothing is written.
func (m *JSONImporter) Import(ctx context.Context, posts []*models.Post, dryRun bool) (*ImportResult, error) {
	m.logger.WithFields(logrus.Fields{
		"count":   len(posts),
		"dry_run": dryRun,
	}).Info("Starting post import...")

	result := &ImportResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	for i, post := range posts {
		result.Processed++
		if post == nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("record %d is null", i))
			continue
		}

		m.normalize(post, result)

		if err := post.Validate(); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("post %s: %v", post.ID, err))
			continue
		}

		if dryRun {
			continue
		}

		if err := m.repo.Put(ctx, post); err != nil {
			return result, fmt.Errorf("failed to write post %s: %w", post.ID, err)
		}
		result.Imported++
	}

	m.logger.WithFields(logrus.Fields{
		"processed": result.Processed,
		"imported":  result.Imported,
		"skipped":   result.Skipped,
	}).Info("Post import finished")

	return result, nil
}

func (m *JSONImporter) normalize(post *models.Post, result *ImportResult) {
	if post.ID == "" {
		post.ID = uuid.New().String()
		result.Warnings = append(result.Warnings, fmt.Sprintf("post %q had no id, assigned %s", post.Title, post.ID))
	}
	if post.CreatedAt == "" {
		post.CreatedAt = models.FormatTimestamp(m.now())
		result.Warnings = append(result.Warnings, fmt.Sprintf("post %s had no createdAt", post.ID))
	} else if ts, err := time.Parse(time.RFC3339Nano, post.CreatedAt); err == nil {
		// Re-format so every stored timestamp has the same width
		post.CreatedAt = models.FormatTimestamp(ts)
	}
	if post.UserID <= 0 {
		post.UserID = m.defaultUserID
	}
}

// Verify checks that every post is present in the store with the same content
func (m *JSONImporter) Verify(ctx context.Context, posts []*models.Post) error {
	var mismatches int
	for _, want := range posts {
		if want == nil || want.ID == "" {
			continue
		}

		got, err := m.repo.Get(ctx, want.ID)
		if err != nil {
			if repositories.IsNotFound(err) {
				m.logger.WithField("id", want.ID).Warn("Post missing from store")
				mismatches++
				continue
			}
			return fmt.Errorf("failed to read post %s: %w", want.ID, err)
		}

		if got.Title != want.Title || got.Body != want.Body {
			m.logger.WithField("id", want.ID).Warn("Post content differs from dump")
			mismatches++
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("%d of %d posts do not match the store", mismatches, len(posts))
	}
	return nil
}

// Export writes every stored post, newest first, as an indented JSON array
func (m *JSONImporter) Export(ctx context.Context, w io.Writer) (int, error) {
	posts, err := m.repo.Scan(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to scan posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	models.SortByCreatedAtDesc(posts)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return 0, fmt.Errorf("failed to encode posts: %w", err)
	}
	return len(posts), nil
}
