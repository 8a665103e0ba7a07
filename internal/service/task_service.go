package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/events"
	"taskboard/internal/platform/logger"
	"taskboard/internal/store"
)

// Broadcaster is the announcement side of the broadcast registry. The
// realtime.Registry satisfies it; tests substitute their own.
type Broadcaster interface {
	Broadcast(message []byte)
}

// TaskDraft carries the client-supplied fields for a new task. Identity
// and timestamps are stamped by the service; a draft cannot set them.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	AssignedTo  string
}

// TaskService orchestrates task creation and listing: it resolves fields
// from the authenticated identity, persists through the task store, and
// announces successful creations on the live channel.
type TaskService struct {
	tasks       store.TaskStore
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewTaskService creates a new TaskService with the given dependencies.
// If log is nil, the default logger is used.
func NewTaskService(tasks store.TaskStore, broadcaster Broadcaster, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{
		tasks:       tasks,
		broadcaster: broadcaster,
		logger:      log.With(slog.String("component", "task_service")),
	}
}

// CreateTask persists a new task on behalf of the authenticated user and
// then announces it on the live channel. CreatedBy and CreatedAt are
// always stamped here; any client-supplied values are discarded. A
// persistence failure aborts the call before any broadcast, so the
// registry never announces a task that was not durably stored. Broadcast
// delivery failures are not an error for this call.
func (s *TaskService) CreateTask(
	ctx context.Context,
	identity *domain.User,
	draft TaskDraft,
) (*domain.Task, error) {
	_ = logger.FromContextOrDefault(ctx, s.logger)

	status := draft.Status
	if status == "" {
		status = domain.TaskStatusPending
	}

	task := &domain.Task{
		ID:          uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Status:      status,
		AssignedTo:  draft.AssignedTo,
		CreatedBy:   identity.Username,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.announceTaskCreated(task)

	return task, nil
}

// announceTaskCreated pushes a task_created event to all open channels.
// The announcement runs on its own goroutine: persist-then-announce is
// deliberately sequential and non-atomic, and the caller never waits on
// or learns about delivery.
func (s *TaskService) announceTaskCreated(task *domain.Task) {
	event, err := events.NewEvent(events.TypeTaskCreated, task)
	if err != nil {
		s.logger.Error("failed to build task_created event",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return
	}

	message, err := event.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal task_created event",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return
	}

	go s.broadcaster.Broadcast(message)
}

// ListTasks returns the tasks where the authenticated user is the creator
// or the assignee, in storage-native order. Tasks belonging to other
// users are never returned.
func (s *TaskService) ListTasks(
	ctx context.Context,
	identity *domain.User,
) ([]*domain.Task, error) {
	return s.tasks.ListForUser(ctx, identity.Username)
}
