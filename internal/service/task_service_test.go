package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/events"
)

// fakeTaskStore is an in-memory store.TaskStore for service tests.
type fakeTaskStore struct {
	mu        sync.Mutex
	tasks     []*domain.Task
	createErr error
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *fakeTaskStore) ListForUser(ctx context.Context, username string) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.CreatedBy == username || t.AssignedTo == username {
			out = append(out, t)
		}
	}
	return out, nil
}

// captureBroadcaster records broadcast messages and signals each delivery.
type captureBroadcaster struct {
	mu       sync.Mutex
	messages [][]byte
	notify   chan struct{}
}

func newCaptureBroadcaster() *captureBroadcaster {
	return &captureBroadcaster{notify: make(chan struct{}, 16)}
}

func (b *captureBroadcaster) Broadcast(message []byte) {
	b.mu.Lock()
	b.messages = append(b.messages, message)
	b.mu.Unlock()
	b.notify <- struct{}{}
}

func (b *captureBroadcaster) waitForBroadcast(t *testing.T) []byte {
	t.Helper()
	select {
	case <-b.notify:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[len(b.messages)-1]
}

func (b *captureBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

func identity(username string) *domain.User {
	return &domain.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
	}
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("stamps identity and defaults", func(t *testing.T) {
		t.Parallel()
		tasks := &fakeTaskStore{}
		broadcaster := newCaptureBroadcaster()
		svc := NewTaskService(tasks, broadcaster, nil)

		task, err := svc.CreateTask(context.Background(), identity("bob"), TaskDraft{
			Title:      "write the report",
			AssignedTo: "carol",
		})
		require.NoError(t, err)

		// created_by comes from the authenticated identity; there is no
		// way for the draft to forge it
		assert.Equal(t, "bob", task.CreatedBy)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.False(t, task.CreatedAt.IsZero())
		assert.NotEqual(t, "", task.ID.String())

		// The broadcast carries the persisted task with the stamped creator
		message := broadcaster.waitForBroadcast(t)
		var event events.Event
		require.NoError(t, json.Unmarshal(message, &event))
		assert.Equal(t, events.TypeTaskCreated, event.Type)

		var announced domain.Task
		require.NoError(t, event.UnmarshalPayload(&announced))
		assert.Equal(t, "bob", announced.CreatedBy)
		assert.Equal(t, task.ID, announced.ID)
	})

	t.Run("persistence failure aborts before broadcast", func(t *testing.T) {
		t.Parallel()
		tasks := &fakeTaskStore{createErr: errors.New("insert failed")}
		broadcaster := newCaptureBroadcaster()
		svc := NewTaskService(tasks, broadcaster, nil)

		_, err := svc.CreateTask(context.Background(), identity("bob"), TaskDraft{
			Title: "doomed",
		})
		require.Error(t, err)

		// Give any stray announcement goroutine a moment to surface
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 0, broadcaster.count())
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		t.Parallel()
		tasks := &fakeTaskStore{}
		broadcaster := newCaptureBroadcaster()
		svc := NewTaskService(tasks, broadcaster, nil)

		_, err := svc.CreateTask(context.Background(), identity("bob"), TaskDraft{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	tasks := &fakeTaskStore{}
	broadcaster := newCaptureBroadcaster()
	svc := NewTaskService(tasks, broadcaster, nil)

	ctx := context.Background()
	_, err := svc.CreateTask(ctx, identity("carol"), TaskDraft{Title: "carol's own"})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, identity("bob"), TaskDraft{Title: "for carol", AssignedTo: "carol"})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, identity("bob"), TaskDraft{Title: "bob only", AssignedTo: "dave"})
	require.NoError(t, err)

	listed, err := svc.ListTasks(ctx, identity("carol"))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, task := range listed {
		isOwnerOrAssignee := task.CreatedBy == "carol" || task.AssignedTo == "carol"
		assert.True(t, isOwnerOrAssignee, "task %q does not belong to carol", task.Title)
	}
}
