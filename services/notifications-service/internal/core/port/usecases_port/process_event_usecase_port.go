package usecases_port

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
)

type ProcessEventUseCasePort interface {
	// Execute fans one event out to per-user notification rows and pushes
	// to connected recipients. A non-nil error tells the consumer to nack.
	Execute(ctx context.Context, event events.DomainEvent) error
}
