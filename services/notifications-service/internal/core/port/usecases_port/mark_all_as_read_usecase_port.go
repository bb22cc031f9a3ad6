package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type MarkAllAsReadUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) error
}
