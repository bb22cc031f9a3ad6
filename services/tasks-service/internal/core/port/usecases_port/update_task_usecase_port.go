package usecases_port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
)

// UpdateTaskInput carries the fields to change. Nil pointers mean "leave as is".
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Deadline        *time.Time
	Priority        *domain.TaskPriority
	Status          *domain.TaskStatus
	AssignedUserIDs *[]uuid.UUID
}

type UpdateTaskUseCasePort interface {
	Execute(ctx context.Context, taskID uuid.UUID, input UpdateTaskInput, userID uuid.UUID) (*domain.Task, error)
}
