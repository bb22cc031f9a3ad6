package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
)

type CreateCommentUseCasePort interface {
	Execute(ctx context.Context, taskID uuid.UUID, content string, authorID uuid.UUID) (*domain.Comment, error)
}
