package services

import (
	"context"
	"fmt"
)

// StaticIdentity assigns every post to a fixed user
type StaticIdentity struct {
	ID int
}

// UserID returns the configured user ID
func (s StaticIdentity) UserID(ctx context.Context) (int, error) {
	if s.ID <= 0 {
		return 0, fmt.Errorf("static identity has no valid user ID: %d", s.ID)
	}
	return s.ID, nil
}
