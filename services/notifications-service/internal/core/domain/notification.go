package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
)

// NotificationType is the stored spelling of an event kind. It is
// colon-delimited, unlike the dot-delimited wire kinds; the mapping
// below is the single place the two spellings meet.
type NotificationType string

const (
	TypeTaskCreated NotificationType = "task:created"
	TypeTaskUpdated NotificationType = "task:updated"
	TypeCommentNew  NotificationType = "comment:new"
)

// Notification is a per-user row derived from one domain event.
// Rows only ever mutate false→true on Read, and are never deleted.
type Notification struct {
	ID        uuid.UUID
	Type      NotificationType
	Message   string
	UserID    uuid.UUID
	TaskID    *uuid.UUID
	Read      bool
	CreatedAt time.Time
}

func NewNotification(notifType NotificationType, message string, userID uuid.UUID, taskID *uuid.UUID) *Notification {
	return &Notification{
		ID:        uuid.New(),
		Type:      notifType,
		Message:   message,
		UserID:    userID,
		TaskID:    taskID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
}

// TypeForKind maps a wire event kind to its stored notification type.
func TypeForKind(kind events.Kind) (NotificationType, bool) {
	switch kind {
	case events.KindTaskCreated:
		return TypeTaskCreated, true
	case events.KindTaskUpdated:
		return TypeTaskUpdated, true
	case events.KindCommentCreated:
		return TypeCommentNew, true
	}
	return "", false
}

// MessageForType returns the fixed human-readable template per type.
func MessageForType(notifType NotificationType) string {
	switch notifType {
	case TypeTaskCreated:
		return "You have been assigned to a new task"
	case TypeTaskUpdated:
		return "A task you are assigned to was updated"
	case TypeCommentNew:
		return "New comment on a task you are assigned to"
	}
	return ""
}
