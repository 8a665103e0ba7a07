package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatusPending is the default status stamped onto new tasks.
// Status is otherwise a free-form string owned by clients.
const TaskStatusPending = "pending"

// Common validation errors for Task
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrEmptyCreatedBy = errors.New("task creator cannot be empty")
)

// Task represents a tracked unit of work. CreatedBy is always stamped
// server-side from the authenticated identity; client-supplied values for
// it are discarded.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a new Task owned by the given username. It assigns a new
// UUID, defaults the status to pending when none is given, and sets the
// creation timestamp.
// Returns an error if validation fails.
func NewTask(createdBy, title string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    TaskStatusPending,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.CreatedBy == "" {
		return ErrEmptyCreatedBy
	}

	return nil
}
