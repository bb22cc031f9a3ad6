package port

import "context"

// EventListenerPort is an inbound message listener. Start blocks until the
// context is cancelled or the underlying transport fails.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
