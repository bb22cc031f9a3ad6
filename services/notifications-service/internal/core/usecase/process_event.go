package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

// ProcessEventUseCase fans one domain event out to notification rows,
// one per assigned user, and pushes to recipients that are connected.
type ProcessEventUseCase struct {
	repo     port.NotificationRepositoryPort
	notifier port.PushNotifierPort
}

func NewProcessEventUseCase(repo port.NotificationRepositoryPort, notifier port.PushNotifierPort) *ProcessEventUseCase {
	return &ProcessEventUseCase{
		repo:     repo,
		notifier: notifier,
	}
}

func (uc *ProcessEventUseCase) Execute(ctx context.Context, event events.DomainEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ProcessEvent",
		"event_kind": string(event.Kind()),
	})
	ucLogger.Info("Use case started", nil)

	notifType, ok := domain.TypeForKind(event.Kind())
	if !ok {
		ucLogger.Warn("Unhandled event kind, dropping", nil)
		return domain.ErrUnhandledEventKind
	}
	message := domain.MessageForType(notifType)

	taskID := taskIDOf(event)
	recipients := events.AssignedUsers(event)
	ucLogger = ucLogger.WithFields(port.Fields{"recipients": len(recipients)})

	// Rows are not atomic across recipients: each is attempted even
	// when an earlier one fails, and the first error is reported so
	// the consumer nacks.
	var firstErr error
	for _, userID := range recipients {
		notification := domain.NewNotification(notifType, message, userID, taskID)

		if err := uc.repo.Create(ctx, notification); err != nil {
			ucLogger.Error("Failed to persist notification", err, port.Fields{"user_id": userID.String()})
			if firstErr == nil {
				firstErr = fmt.Errorf("persist notification for user %s: %w", userID, err)
			}
			continue
		}

		result := uc.notifier.SendToUser(ctx, userID, *notification)
		if !result.Delivered {
			ucLogger.Debug("Push skipped", port.Fields{"user_id": userID.String(), "reason": result.Reason})
		}
	}

	if firstErr != nil {
		return firstErr
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

func taskIDOf(event events.DomainEvent) *uuid.UUID {
	switch e := event.(type) {
	case events.TaskCreatedEvent:
		return &e.TaskID
	case events.TaskUpdatedEvent:
		return &e.TaskID
	case events.CommentCreatedEvent:
		return &e.TaskID
	}
	return nil
}
