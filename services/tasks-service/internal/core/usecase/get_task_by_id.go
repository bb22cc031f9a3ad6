package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

type GetTaskByIdUseCase struct {
	repo port.TaskRepositoryPort
}

func NewGetTaskByIdUseCase(repo port.TaskRepositoryPort) *GetTaskByIdUseCase {
	return &GetTaskByIdUseCase{repo: repo}
}

func (uc *GetTaskByIdUseCase) Execute(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetTaskById",
		"task_id":  taskID.String(),
	})

	task, err := uc.repo.FindByID(ctx, taskID)
	if err != nil {
		ucLogger.Warn("Task lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}
	return task, nil
}
