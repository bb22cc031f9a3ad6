package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
)

type GetTaskByIdUseCasePort interface {
	Execute(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
}
