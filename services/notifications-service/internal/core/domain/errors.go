package domain

import "errors"

var (
	// ErrUnhandledEventKind means the consumer saw an event kind this
	// service has no mapping for. The message is dropped, not requeued.
	ErrUnhandledEventKind = errors.New("unhandled event kind")
)
