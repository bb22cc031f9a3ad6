package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a message attached to a task.
type Comment struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewComment(taskID, authorID uuid.UUID, content string) *Comment {
	now := time.Now().UTC()
	return &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
