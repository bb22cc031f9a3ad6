package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

type CreateCommentUseCase struct {
	taskRepo    port.TaskRepositoryPort
	commentRepo port.CommentRepositoryPort
	publisher   port.EventPublisherPort
}

func NewCreateCommentUseCase(taskRepo port.TaskRepositoryPort, commentRepo port.CommentRepositoryPort, publisher port.EventPublisherPort) *CreateCommentUseCase {
	return &CreateCommentUseCase{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
	}
}

func (uc *CreateCommentUseCase) Execute(ctx context.Context, taskID uuid.UUID, content string, authorID uuid.UUID) (*domain.Comment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "CreateComment",
		"task_id":   taskID.String(),
		"author_id": authorID.String(),
	})
	ucLogger.Info("Use case started", nil)

	// The event carries the task's assignees, so the task must exist.
	task, err := uc.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		ucLogger.Warn("Task lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	comment := domain.NewComment(taskID, authorID, content)
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		ucLogger.Error("Repository failed to create comment", err, nil)
		return nil, err
	}

	ucLogger = ucLogger.WithFields(port.Fields{"comment_id": comment.ID.String()})

	result := uc.publisher.Publish(ctx, events.CommentCreatedEvent{
		TaskID:          task.ID,
		CommentID:       comment.ID,
		AssignedUserIDs: task.AssignedUserIDs,
		AuthorID:        authorID,
	})
	if !result.Delivered {
		ucLogger.Warn("Comment created event was dropped", port.Fields{"reason": result.Reason})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return comment, nil
}
