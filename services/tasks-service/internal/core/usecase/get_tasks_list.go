package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

type GetTasksListUseCase struct {
	repo port.TaskRepositoryPort
}

func NewGetTasksListUseCase(repo port.TaskRepositoryPort) *GetTasksListUseCase {
	return &GetTasksListUseCase{repo: repo}
}

func (uc *GetTasksListUseCase) Execute(ctx context.Context, userID uuid.UUID, filter port.TaskFilter, page, size int) ([]domain.Task, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetTasksList",
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

	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, 0, domain.ErrInvalidStatus
	}
	if filter.Priority != "" && !domain.ValidPriority(filter.Priority) {
		return nil, 0, domain.ErrInvalidPriority
	}

	offset := (page - 1) * size
	tasks, total, err := uc.repo.FindAll(ctx, userID, filter, size, offset)
	if err != nil {
		ucLogger.Error("Repository failed to list tasks", err, nil)
		return nil, 0, err
	}

	ucLogger.Debug("Tasks listed", port.Fields{"count": len(tasks), "total": total})
	return tasks, total, nil
}
