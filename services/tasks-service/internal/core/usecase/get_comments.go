package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

type GetCommentsUseCase struct {
	taskRepo    port.TaskRepositoryPort
	commentRepo port.CommentRepositoryPort
}

func NewGetCommentsUseCase(taskRepo port.TaskRepositoryPort, commentRepo port.CommentRepositoryPort) *GetCommentsUseCase {
	return &GetCommentsUseCase{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
	}
}

func (uc *GetCommentsUseCase) Execute(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetComments",
		"task_id":  taskID.String(),
	})

	if _, err := uc.taskRepo.FindByID(ctx, taskID); err != nil {
		ucLogger.Warn("Task lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	comments, err := uc.commentRepo.FindByTask(ctx, taskID)
	if err != nil {
		ucLogger.Error("Repository failed to list comments", err, nil)
		return nil, err
	}
	return comments, nil
}
