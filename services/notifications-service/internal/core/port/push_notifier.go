package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
)

// DeliveryResult reports what happened to a single push attempt.
// A Dropped result is normal operation, not an error: disconnected
// users fall back to the query API.
type DeliveryResult struct {
	Delivered bool
	// Reason is set when Delivered is false.
	Reason string
}

// PushNotifierPort delivers freshly created notifications to connected users.
type PushNotifierPort interface {
	SendToUser(ctx context.Context, userID uuid.UUID, notification domain.Notification) DeliveryResult
	// Broadcast sends to every connected user, returning one result per user.
	Broadcast(ctx context.Context, notification domain.Notification) map[uuid.UUID]DeliveryResult
}
