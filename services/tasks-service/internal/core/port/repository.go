package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
)

// TaskRepositoryPort defines the contract for task persistence.
type TaskRepositoryPort interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, taskID uuid.UUID) error
	// FindByID returns domain.ErrTaskNotFound when no task matches.
	FindByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	// FindAll lists tasks visible to the user (created by or assigned to them)
	// with pagination. Returns the page and the total row count.
	FindAll(ctx context.Context, userID uuid.UUID, filter TaskFilter, limit, offset int) ([]domain.Task, int64, error)
}

// TaskFilter narrows a task listing. Zero values mean no filtering.
type TaskFilter struct {
	Status   domain.TaskStatus
	Priority domain.TaskPriority
}

// CommentRepositoryPort defines the contract for comment persistence.
type CommentRepositoryPort interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error)
}
