package port

import (
	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
)

// PresencePort tracks which users currently hold a live push connection.
// At most one connection per user: a second Register for the same user
// replaces the first, closing its channel.
type PresencePort interface {
	// Register creates and returns the channel push deliveries for this
	// user will be sent on.
	Register(userID uuid.UUID) chan domain.Notification
	// Unregister removes the mapping only if it still points at ch, so a
	// stale connection cannot evict its replacement.
	Unregister(userID uuid.UUID, ch chan domain.Notification)
	// Lookup returns the user's live channel, if any.
	Lookup(userID uuid.UUID) (chan domain.Notification, bool)
	// Deliver sends the notification to the user's channel under the same
	// lock that guards Register, so a concurrent replacement cannot close
	// the channel mid-send. The send never blocks.
	Deliver(userID uuid.UUID, notification domain.Notification) DeliveryResult
	// Snapshot returns the current user→channel mapping for broadcasts.
	Snapshot() map[uuid.UUID]chan domain.Notification
}
