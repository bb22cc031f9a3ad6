package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
)

type GetNotificationsUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, page, size int) ([]domain.Notification, int64, error)
}
