package usecases_port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
)

// CreateTaskInput carries the validated attributes of a new task.
type CreateTaskInput struct {
	Title           string
	Description     string
	Deadline        *time.Time
	Priority        domain.TaskPriority
	AssignedUserIDs []uuid.UUID
}

type CreateTaskUseCasePort interface {
	Execute(ctx context.Context, input CreateTaskInput, createdByID uuid.UUID) (*domain.Task, error)
}
