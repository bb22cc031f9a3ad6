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

type CreateTaskUseCase struct {
	repo      port.TaskRepositoryPort
	publisher port.EventPublisherPort
}

func NewCreateTaskUseCase(repo port.TaskRepositoryPort, publisher port.EventPublisherPort) *CreateTaskUseCase {
	return &CreateTaskUseCase{
		repo:      repo,
		publisher: publisher,
	}
}

func (uc *CreateTaskUseCase) Execute(ctx context.Context, input usecases_port.CreateTaskInput, createdByID uuid.UUID) (*domain.Task, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "CreateTask",
		"task_title": input.Title,
		"user_id":    createdByID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		ucLogger.Warn("Rejected task with unknown priority", port.Fields{"priority": input.Priority})
		return nil, domain.ErrInvalidPriority
	}

	task := domain.NewTask(input.Title, input.Description, input.Deadline, input.Priority, input.AssignedUserIDs, createdByID)

	if err := uc.repo.Create(ctx, task); err != nil {
		ucLogger.Error("Repository failed to create task", err, nil)
		return nil, err
	}

	ucLogger = ucLogger.WithFields(port.Fields{"task_id": task.ID.String()})
	ucLogger.Debug("Task created successfully, publishing event", nil)

	// Fire-and-forget. The task exists regardless of broker health.
	result := uc.publisher.Publish(ctx, events.TaskCreatedEvent{
		TaskID:          task.ID,
		AssignedUserIDs: task.AssignedUserIDs,
		CreatedBy:       task.CreatedByID,
	})
	if !result.Delivered {
		ucLogger.Warn("Task created event was dropped", port.Fields{"reason": result.Reason})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return task, nil
}
