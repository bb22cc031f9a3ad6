package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

type GetTasksListUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, filter port.TaskFilter, page, size int) ([]domain.Task, int64, error)
}
