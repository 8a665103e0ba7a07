package store

import (
	"context"

	"taskboard/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store under its assigned ID.
	// Returns ErrInvalidEntity if the creator does not reference an
	// existing user, or validation errors from the domain Task.
	Create(ctx context.Context, task *domain.Task) error

	// ListForUser retrieves all tasks where the given username is either
	// the creator or the assignee, in storage-native order.
	ListForUser(ctx context.Context, username string) ([]*domain.Task, error)
}
