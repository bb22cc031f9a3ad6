package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

type DeleteTaskUseCase struct {
	repo port.TaskRepositoryPort
}

func NewDeleteTaskUseCase(repo port.TaskRepositoryPort) *DeleteTaskUseCase {
	return &DeleteTaskUseCase{repo: repo}
}

func (uc *DeleteTaskUseCase) Execute(ctx context.Context, taskID uuid.UUID, userID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "DeleteTask",
		"task_id":  taskID.String(),
		"user_id":  userID.String(),
	})
	ucLogger.Info("Use case started", nil)

	task, err := uc.repo.FindByID(ctx, taskID)
	if err != nil {
		ucLogger.Warn("Task lookup failed", port.Fields{"error": err.Error()})
		return err
	}

	// Only the creator may delete a task.
	if task.CreatedByID != userID {
		ucLogger.Warn("Delete rejected: user is not the task creator", nil)
		return domain.ErrNotTaskOwner
	}

	if err := uc.repo.Delete(ctx, taskID); err != nil {
		ucLogger.Error("Repository failed to delete task", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
