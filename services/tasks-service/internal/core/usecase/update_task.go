package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port/usecases_port"
)

type UpdateTaskUseCase struct {
	repo      port.TaskRepositoryPort
	publisher port.EventPublisherPort
}

func NewUpdateTaskUseCase(repo port.TaskRepositoryPort, publisher port.EventPublisherPort) *UpdateTaskUseCase {
	return &UpdateTaskUseCase{
		repo:      repo,
		publisher: publisher,
	}
}

func (uc *UpdateTaskUseCase) Execute(ctx context.Context, taskID uuid.UUID, input usecases_port.UpdateTaskInput, userID uuid.UUID) (*domain.Task, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "UpdateTask",
		"task_id":  taskID.String(),
		"user_id":  userID.String(),
	})
	ucLogger.Info("Use case started", nil)

	task, err := uc.repo.FindByID(ctx, taskID)
	if err != nil {
		ucLogger.Warn("Task lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			ucLogger.Warn("Rejected update with unknown priority", port.Fields{"priority": *input.Priority})
			return nil, domain.ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			ucLogger.Warn("Rejected update with unknown status", port.Fields{"status": *input.Status})
			return nil, domain.ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.AssignedUserIDs != nil {
		task.AssignedUserIDs = *input.AssignedUserIDs
	}

	if err := uc.repo.Update(ctx, task); err != nil {
		ucLogger.Error("Repository failed to update task", err, nil)
		return nil, err
	}

	result := uc.publisher.Publish(ctx, events.TaskUpdatedEvent{
		TaskID:          task.ID,
		AssignedUserIDs: task.AssignedUserIDs,
		UpdatedBy:       userID,
	})
	if !result.Delivered {
		ucLogger.Warn("Task updated event was dropped", port.Fields{"reason": result.Reason})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return task, nil
}
