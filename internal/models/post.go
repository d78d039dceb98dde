package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post represents a post record in the store
type Post struct {
	ID        string `json:"id" dynamodbav:"id" bson:"_id" db:"id" validate:"required"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt" bson:"createdAt" db:"created_at"`
	UserID    int    `json:"userId" dynamodbav:"userId" bson:"userId" db:"user_id"`
	Title     string `json:"title" dynamodbav:"title" bson:"title" db:"title"`
	Body      string `json:"body" dynamodbav:"body" bson:"body" db:"body"`
}

// NewPost creates a new post with a generated ID and a creation timestamp
func NewPost(userID int, title, body string, now time.Time) *Post {
	return &Post{
		ID:        uuid.New().String(),
		CreatedAt: FormatTimestamp(now),
		UserID:    userID,
		Title:     title,
		Body:      body,
	}
}

// Validate validates the post data
func (p *Post) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("post ID is required")
	}

	if err := ValidateTimestamp(p.CreatedAt, "createdAt"); err != nil {
		return err
	}

	if err := ValidateRequired(p.Title, "title"); err != nil {
		return err
	}

	return ValidateRequired(p.Body, "body")
}

// Apply copies the fields set in the patch onto the post
func (p *Post) Apply(patch *PostPatch) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
}

// Clone returns a copy of the post
func (p *Post) Clone() *Post {
	clone := *p
	return &clone
}

// PostPatch holds the mutable fields of a post. Nil fields are left untouched.
type PostPatch struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p *PostPatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Body == nil)
}

// Fields returns the set fields keyed by attribute name
func (p *PostPatch) Fields() map[string]string {
	fields := make(map[string]string, 2)
	if p == nil {
		return fields
	}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Body != nil {
		fields["body"] = *p.Body
	}
	return fields
}

// UpdateResult is the store's response to a conditional update
type UpdateResult struct {
	Attributes *Post `json:"Attributes"`
}

// SortByCreatedAtDesc orders posts newest first. Posts with equal timestamps keep their order.
func SortByCreatedAtDesc(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
}
