package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

type MarkAllAsReadUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewMarkAllAsReadUseCase(repo port.NotificationRepositoryPort) *MarkAllAsReadUseCase {
	return &MarkAllAsReadUseCase{repo: repo}
}

func (uc *MarkAllAsReadUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "MarkAllAsRead",
		"user_id":  userID.String(),
	})

	if err := uc.repo.MarkAllAsRead(ctx, userID); err != nil {
		ucLogger.Error("Repository failed to mark all notifications as read", err, nil)
		return err
	}

	ucLogger.Debug("All notifications marked as read", nil)
	return nil
}
