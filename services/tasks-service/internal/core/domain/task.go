package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// TaskPriority enumerates the urgency levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Task is the main domain entity.
type Task struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Deadline        *time.Time
	Priority        TaskPriority
	Status          TaskStatus
	AssignedUserIDs []uuid.UUID
	CreatedByID     uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTask builds a task in its initial state.
func NewTask(title, description string, deadline *time.Time, priority TaskPriority, assignedUserIDs []uuid.UUID, createdByID uuid.UUID) *Task {
	now := time.Now().UTC()
	if priority == "" {
		priority = PriorityMedium
	}
	return &Task{
		ID:              uuid.New(),
		Title:           title,
		Description:     description,
		Deadline:        deadline,
		Priority:        priority,
		Status:          StatusTodo,
		AssignedUserIDs: assignedUserIDs,
		CreatedByID:     createdByID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known urgency levels.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
