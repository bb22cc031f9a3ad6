package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

// PostgresTaskRepository implements TaskRepositoryPort for PostgreSQL.
// Assignees live in the task_assignments join table and are written
// in the same transaction as the task row.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTaskRepository(pool *pgxpool.Pool) (*PostgresTaskRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresTaskRepository{pool: pool}, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTaskRepository",
		"method":    "Create",
		"task_id":   task.ID.String(),
	})

	repoLogger.Debug("Creating new task in DB", nil)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tasks (id, title, description, deadline, priority, status, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Deadline,
		task.Priority,
		task.Status,
		task.CreatedByID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to create task", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := insertAssignments(ctx, tx, task.ID, task.AssignedUserIDs); err != nil {
		repoLogger.Error("Failed to create task assignments", err, nil)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Task created successfully", nil)
	return nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTaskRepository",
		"method":    "Update",
		"task_id":   task.ID.String(),
	})

	repoLogger.Debug("Updating task in DB", port.Fields{"new_status": task.Status})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE tasks
		SET
			title = $2,
			description = $3,
			deadline = $4,
			priority = $5,
			status = $6,
			updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := tx.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Deadline,
		task.Priority,
		task.Status,
	)
	if err != nil {
		repoLogger.Error("Failed to update task", err, port.Fields{"query": query})
		return fmt.Errorf("failed to update task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Update failed: task not found", nil)
		return domain.ErrTaskNotFound
	}

	// Replace the assignee set wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM task_assignments WHERE task_id = $1`, task.ID); err != nil {
		repoLogger.Error("Failed to clear task assignments", err, nil)
		return fmt.Errorf("failed to clear task assignments: %w", err)
	}
	if err := insertAssignments(ctx, tx, task.ID, task.AssignedUserIDs); err != nil {
		repoLogger.Error("Failed to rewrite task assignments", err, nil)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Task updated successfully", nil)
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTaskRepository",
		"method":    "Delete",
		"task_id":   taskID.String(),
	})

	repoLogger.Debug("Deleting task from DB", nil)

	// Assignments and comments cascade via FK constraints.
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		repoLogger.Error("Failed to delete task", err, nil)
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Delete failed: task not found", nil)
		return domain.ErrTaskNotFound
	}

	repoLogger.Debug("Task deleted successfully", nil)
	return nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTaskRepository",
		"method":    "FindByID",
		"task_id":   taskID.String(),
	})

	repoLogger.Debug("Finding task by ID.", nil)

	query := `
		SELECT t.id, t.title, t.description, t.deadline, t.priority, t.status, t.created_by_id, t.created_at, t.updated_at,
		       COALESCE(array_agg(a.user_id) FILTER (WHERE a.user_id IS NOT NULL), '{}') AS assigned_user_ids
		FROM tasks t
		LEFT JOIN task_assignments a ON a.task_id = t.id
		WHERE t.id = $1
		GROUP BY t.id
	`
	task, err := scanTaskRow(r.pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Task not found.", nil)
			return nil, domain.ErrTaskNotFound
		}
		repoLogger.Error("Failed to find task by ID", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find task by id: %w", err)
	}

	repoLogger.Debug("Task found successfully.", nil)
	return task, nil
}

// FindAll lists tasks the user created or is assigned to, newest first.
func (r *PostgresTaskRepository) FindAll(ctx context.Context, userID uuid.UUID, filter port.TaskFilter, limit, offset int) ([]domain.Task, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTaskRepository",
		"method":    "FindAll",
		"user_id":   userID.String(),
		"limit":     limit,
		"offset":    offset,
	})

	visibility := `(t.created_by_id = $1 OR EXISTS (
		SELECT 1 FROM task_assignments v WHERE v.task_id = t.id AND v.user_id = $1
	))`

	args := []any{userID}
	where := "WHERE " + visibility
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where += fmt.Sprintf(" AND t.priority = $%d", len(args))
	}

	repoLogger.Debug("Starting transaction to find tasks for user.", nil)
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM tasks t " + where
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count tasks", err, port.Fields{"query": countQuery})
		return nil, 0, fmt.Errorf("failed to count tasks for user %s: %w", userID, err)
	}

	if totalCount == 0 {
		return []domain.Task{}, 0, nil
	}

	args = append(args, limit, offset)
	dataQuery := fmt.Sprintf(`
		SELECT t.id, t.title, t.description, t.deadline, t.priority, t.status, t.created_by_id, t.created_at, t.updated_at,
		       COALESCE(array_agg(a.user_id) FILTER (WHERE a.user_id IS NOT NULL), '{}') AS assigned_user_ids
		FROM tasks t
		LEFT JOIN task_assignments a ON a.task_id = t.id
		%s
		GROUP BY t.id
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := tx.Query(ctx, dataQuery, args...)
	if err != nil {
		repoLogger.Error("Failed to query tasks", err, port.Fields{"query": dataQuery})
		return nil, 0, fmt.Errorf("failed to query tasks for user %s: %w", userID, err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, limit)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			repoLogger.Error("Failed to scan task row", err, nil)
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during tasks iteration", err, nil)
		return nil, 0, fmt.Errorf("error during tasks iteration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tasks, totalCount, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&task.Priority,
		&task.Status,
		&task.CreatedByID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.AssignedUserIDs,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func insertAssignments(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, userIDs []uuid.UUID) error {
	for _, userID := range userIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO task_assignments (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to assign user %s to task %s: %w", userID, taskID, err)
		}
	}
	return nil
}
