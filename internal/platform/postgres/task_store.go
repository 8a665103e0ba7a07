package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"taskboard/internal/domain"
	"taskboard/internal/platform/logger"
	"taskboard/internal/store"
)

// PostgreSQL error codes
const pgForeignKeyViolationCode = "23503"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the creator doesn't exist (foreign key
// violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, due_date, status, assigned_to, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		nullIfEmpty(task.AssignedTo),
		task.CreatedBy,
		task.CreatedAt,
	)

	if err != nil {
		// Check for foreign key violation on created_by
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("created_by", task.CreatedBy))
			return fmt.Errorf("%w: user %q not found",
				store.ErrInvalidEntity, task.CreatedBy)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("created_by", task.CreatedBy))
		return fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("created_by", task.CreatedBy),
		slog.String("status", task.Status))
	return nil
}

// ListForUser implements store.TaskStore.ListForUser
// It retrieves all tasks created by or assigned to the given username,
// in insertion order.
func (s *PostgresTaskStore) ListForUser(
	ctx context.Context,
	username string,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, due_date, status, assigned_to, created_by, created_at
		FROM tasks
		WHERE created_by = $1 OR assigned_to = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		log.Error("failed to list tasks for user",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		var description, assignedTo sql.NullString
		var dueDate sql.NullTime

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&description,
			&dueDate,
			&task.Status,
			&assignedTo,
			&task.CreatedBy,
			&task.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("username", username))
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.Description = description.String
		task.AssignedTo = assignedTo.String
		if dueDate.Valid {
			task.DueDate = &dueDate.Time
		}

		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// nullIfEmpty maps an empty string to SQL NULL so that optional text
// columns stay NULL rather than storing empty strings.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
