package postgres_adapter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

// PostgresCommentRepository implements CommentRepositoryPort for PostgreSQL.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) (*PostgresCommentRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresCommentRepository{pool: pool}, nil
}

func (r *PostgresCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresCommentRepository",
		"method":     "Create",
		"comment_id": comment.ID.String(),
		"task_id":    comment.TaskID.String(),
	})

	query := `
		INSERT INTO comments (id, task_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	repoLogger.Debug("Creating new comment in DB", nil)
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to create comment", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create comment: %w", err)
	}

	repoLogger.Debug("Comment created successfully", nil)
	return nil
}

// FindByTask returns comments oldest first, like a conversation reads.
func (r *PostgresCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresCommentRepository",
		"method":    "FindByTask",
		"task_id":   taskID.String(),
	})

	query := `
		SELECT id, task_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		repoLogger.Error("Failed to query comments", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query comments for task %s: %w", taskID, err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			repoLogger.Error("Failed to scan comment row", err, nil)
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during comments iteration", err, nil)
		return nil, fmt.Errorf("error during comments iteration: %w", err)
	}

	return comments, nil
}
