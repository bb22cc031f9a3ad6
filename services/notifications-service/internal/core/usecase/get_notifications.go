package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

type GetNotificationsUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewGetNotificationsUseCase(repo port.NotificationRepositoryPort) *GetNotificationsUseCase {
	return &GetNotificationsUseCase{repo: repo}
}

func (uc *GetNotificationsUseCase) Execute(ctx context.Context, userID uuid.UUID, page, size int) ([]domain.Notification, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetNotifications",
		"user_id":  userID.String(),
		"page":     page,
		"size":     size,
	})

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	offset := (page - 1) * size
	notifications, total, err := uc.repo.FindByUser(ctx, userID, size, offset)
	if err != nil {
		ucLogger.Error("Repository failed to list notifications", err, nil)
		return nil, 0, err
	}

	ucLogger.Debug("Notifications listed", port.Fields{"count": len(notifications), "total": total})
	return notifications, total, nil
}
