package port

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
)

// PublishResult reports what happened to a single publish attempt.
// Publishing is fire-and-forget: a failed publish never fails the
// operation that produced the event, it is logged and dropped.
type PublishResult struct {
	Delivered bool
	// Reason is set when Delivered is false.
	Reason string
}

// EventPublisherPort pushes domain events onto the message broker.
type EventPublisherPort interface {
	Publish(ctx context.Context, event events.DomainEvent) PublishResult
}
