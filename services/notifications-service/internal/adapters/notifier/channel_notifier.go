package notifier

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

// ChannelPushNotifier pushes notifications into the per-user channels
// tracked by a PresencePort. Sends never block: a full buffer means the
// subscriber is too slow and the push is dropped. Delivery itself happens
// inside the presence, under the lock that guards connection churn.
type ChannelPushNotifier struct {
	presence port.PresencePort
}

func NewChannelPushNotifier(presence port.PresencePort) *ChannelPushNotifier {
	return &ChannelPushNotifier{presence: presence}
}

func (n *ChannelPushNotifier) SendToUser(_ context.Context, userID uuid.UUID, notification domain.Notification) port.DeliveryResult {
	return n.presence.Deliver(userID, notification)
}

func (n *ChannelPushNotifier) Broadcast(ctx context.Context, notification domain.Notification) map[uuid.UUID]port.DeliveryResult {
	clients := n.presence.Snapshot()
	results := make(map[uuid.UUID]port.DeliveryResult, len(clients))
	for userID := range clients {
		results[userID] = n.SendToUser(ctx, userID, notification)
	}
	return results
}
