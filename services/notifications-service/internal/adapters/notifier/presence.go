package notifier

import (
	"sync"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

// channelBuffer bounds how far a slow subscriber can fall behind before
// pushes to it start dropping.
const channelBuffer = 100

// InMemoryPresence implements PresencePort with a mutex-guarded map.
// State is local to one process instance: horizontally scaled replicas
// each only see their own connections.
type InMemoryPresence struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]chan domain.Notification

	logger port.LoggerPort
}

func NewInMemoryPresence(baseLogger port.LoggerPort) *InMemoryPresence {
	return &InMemoryPresence{
		clients: make(map[uuid.UUID]chan domain.Notification),
		logger:  baseLogger.WithFields(port.Fields{"component": "InMemoryPresence"}),
	}
}

// Register maps the user to a fresh channel. A second registration for
// the same user replaces the first: the old channel is closed so its
// subscriber loop terminates.
func (p *InMemoryPresence) Register(userID uuid.UUID) chan domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, found := p.clients[userID]; found {
		p.logger.Warn("User already connected, replacing previous connection", port.Fields{"user_id": userID.String()})
		close(old)
	}

	ch := make(chan domain.Notification, channelBuffer)
	p.clients[userID] = ch

	p.logger.Info("Client connected", port.Fields{"user_id": userID.String()})
	return ch
}

// Unregister removes the mapping only when it still points at ch.
// A connection replaced by a newer one must not evict its successor.
func (p *InMemoryPresence) Unregister(userID uuid.UUID, ch chan domain.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current, found := p.clients[userID]; found && current == ch {
		delete(p.clients, userID)
		p.logger.Info("Client disconnected", port.Fields{"user_id": userID.String()})
	}
}

func (p *InMemoryPresence) Lookup(userID uuid.UUID) (chan domain.Notification, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ch, found := p.clients[userID]
	return ch, found
}

// Deliver sends to the user's channel while holding the read lock, which
// excludes a concurrent Register from closing the channel mid-send.
func (p *InMemoryPresence) Deliver(userID uuid.UUID, notification domain.Notification) port.DeliveryResult {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ch, found := p.clients[userID]
	if !found {
		return port.DeliveryResult{Delivered: false, Reason: "user not connected"}
	}

	select {
	case ch <- notification:
		return port.DeliveryResult{Delivered: true}
	default:
		p.logger.Warn("Notification channel full, dropping push", port.Fields{
			"user_id":         userID.String(),
			"notification_id": notification.ID.String(),
		})
		return port.DeliveryResult{Delivered: false, Reason: "connection buffer full"}
	}
}

func (p *InMemoryPresence) Snapshot() map[uuid.UUID]chan domain.Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snapshot := make(map[uuid.UUID]chan domain.Notification, len(p.clients))
	for userID, ch := range p.clients {
		snapshot[userID] = ch
	}
	return snapshot
}
