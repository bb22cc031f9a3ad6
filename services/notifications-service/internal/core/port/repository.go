package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
)

// NotificationRepositoryPort defines the contract for notification persistence.
type NotificationRepositoryPort interface {
	Create(ctx context.Context, notification *domain.Notification) error
	// FindByUser returns a page of the user's notifications, newest first,
	// plus the total row count for that user.
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, int64, error)
	// MarkAsRead flips read to true when the row exists and belongs to the
	// user. A miss is a no-op, not an error.
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	// MarkAllAsRead flips every unread row of the user. Idempotent.
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}
