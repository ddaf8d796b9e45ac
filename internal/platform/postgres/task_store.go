package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
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
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	tags, err := marshalTags(task.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, category_id, title, description, status,
			priority, due_date, tags, estimated_hours, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		tags,
		task.EstimatedHours,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolationCode {
			constraint := pgConstraintName(err)
			log.Warn("foreign key violation during task creation",
				slog.String("constraint", constraint),
				slog.String("task_id", task.ID.String()))
			if strings.Contains(constraint, "category") {
				return fmt.Errorf("%w: category not found", store.ErrInvalidEntity)
			}
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, user_id, category_id, title, description, status, priority,
			due_date, tags, estimated_hours, completed_at, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	var task domain.Task
	var tags []byte
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.DueDate, &tags,
		&task.EstimatedHours, &task.CompletedAt, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, s.translateQueryError(ctx, err, "failed to query task")
	}

	if task.Tags, err = unmarshalTags(tags); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetWithCategory implements store.TaskStore.GetWithCategory
func (s *PostgresTaskStore) GetWithCategory(ctx context.Context, userID, id uuid.UUID) (*store.TaskWithCategory, error) {
	query := taskWithCategorySelect + `
		WHERE t.id = $1 AND t.user_id = $2
	`

	row := s.db.QueryRowContext(ctx, query, id, userID)
	task, err := scanTaskWithCategory(row)
	if err != nil {
		return nil, s.translateQueryError(ctx, err, "failed to query task")
	}
	return task, nil
}

// Update implements store.TaskStore.Update
// It persists all mutable fields; the row is matched on both id and owner so
// a task can never be updated across the tenant boundary.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	tags, err := marshalTags(task.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET category_id = $1, title = $2, description = $3, status = $4,
			priority = $5, due_date = $6, tags = $7, estimated_hours = $8,
			completed_at = $9, updated_at = $10
		WHERE id = $11 AND user_id = $12
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		tags,
		task.EstimatedHours,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolationCode {
			return fmt.Errorf("%w: category not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, params store.TaskListParams) ([]*store.TaskWithCategory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	params.Normalize()

	where, args := buildTaskPredicates(params)
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		taskWithCategorySelect,
		where,
		taskSortExpression(params.SortField, params.SortDesc),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, params.Limit, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", params.UserID.String()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*store.TaskWithCategory{}
	for rows.Next() {
		task, err := scanTaskWithCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// Count implements store.TaskStore.Count
func (s *PostgresTaskStore) Count(ctx context.Context, params store.TaskListParams) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskPredicates(params)
	query := "SELECT count(*) FROM tasks t WHERE " + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", params.UserID.String()))
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
// This is the status-histogram aggregate behind the dashboard stats; it is
// scoped to the user only, regardless of any list filters.
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT status, count(*)
		FROM tasks
		WHERE user_id = $1
		GROUP BY status
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to aggregate task statuses",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to aggregate task statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := map[domain.TaskStatus]int{}
	for rows.Next() {
		var status domain.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return stats, nil
}

// ClearCategory implements store.TaskStore.ClearCategory
func (s *PostgresTaskStore) ClearCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET category_id = NULL, updated_at = $1
		WHERE category_id = $2
	`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), categoryID)
	if err != nil {
		log.Error("failed to clear category references",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()))
		return 0, fmt.Errorf("failed to clear category references: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("cleared category references",
		slog.String("category_id", categoryID.String()),
		slog.Int64("tasks_updated", affected))
	return affected, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresTaskStore) translateQueryError(ctx context.Context, err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Error(msg, slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", msg, err)
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return data, nil
}

func unmarshalTags(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
