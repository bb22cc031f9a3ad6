package rest

import (
	"time"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
)

// NotificationResponse is the API representation of one stored notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	TaskID    *string   `json:"taskId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaginatedNotificationsResponse wraps a notification page.
type PaginatedNotificationsResponse struct {
	Data       []NotificationResponse `json:"data"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Size       int                    `json:"size"`
	TotalPages int                    `json:"totalPages"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		UserID:    n.UserID.String(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.TaskID != nil {
		taskID := n.TaskID.String()
		resp.TaskID = &taskID
	}
	return resp
}
