package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

type MarkAsReadUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewMarkAsReadUseCase(repo port.NotificationRepositoryPort) *MarkAsReadUseCase {
	return &MarkAsReadUseCase{repo: repo}
}

// Execute flips a single notification to read. Missing or foreign rows
// are a silent no-op.
func (uc *MarkAsReadUseCase) Execute(ctx context.Context, notificationID, userID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "MarkAsRead",
		"notification_id": notificationID.String(),
		"user_id":         userID.String(),
	})

	if err := uc.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		ucLogger.Error("Repository failed to mark notification as read", err, nil)
		return err
	}

	ucLogger.Debug("Notification marked as read", nil)
	return nil
}
