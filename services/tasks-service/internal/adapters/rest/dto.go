package rest

import (
	"time"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
)

// CreateTaskRequest is the request body for task creation.
type CreateTaskRequest struct {
	Title           string    `json:"title" validate:"required,min=1,max=200"`
	Description     string    `json:"description" validate:"max=5000"`
	Deadline        *string   `json:"deadline" validate:"omitempty"`
	Priority        string    `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssignedUserIDs []string  `json:"assignedUserIds" validate:"omitempty,dive,uuid"`
}

// UpdateTaskRequest is the request body for task updates.
// Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title           *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string   `json:"description" validate:"omitempty,max=5000"`
	Deadline        *string   `json:"deadline" validate:"omitempty"`
	Priority        *string   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status          *string   `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW DONE"`
	AssignedUserIDs *[]string `json:"assignedUserIds" validate:"omitempty,dive,uuid"`
}

// CreateCommentRequest is the request body for adding a comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// TaskResponse is the public projection of a task.
type TaskResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Deadline        *time.Time `json:"deadline"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	AssignedUserIDs []string   `json:"assignedUserIds"`
	CreatedByID     string     `json:"createdById"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CommentResponse is the public projection of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaginatedTasksResponse wraps a task page.
type PaginatedTasksResponse struct {
	Data       []TaskResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"totalPages"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toTaskResponse(task *domain.Task) TaskResponse {
	assigned := make([]string, 0, len(task.AssignedUserIDs))
	for _, id := range task.AssignedUserIDs {
		assigned = append(assigned, id.String())
	}
	return TaskResponse{
		ID:              task.ID.String(),
		Title:           task.Title,
		Description:     task.Description,
		Deadline:        task.Deadline,
		Priority:        string(task.Priority),
		Status:          string(task.Status),
		AssignedUserIDs: assigned,
		CreatedByID:     task.CreatedByID.String(),
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

func toCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID.String(),
		TaskID:    comment.TaskID.String(),
		AuthorID:  comment.AuthorID.String(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
