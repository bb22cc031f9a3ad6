package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type DeleteTaskUseCasePort interface {
	Execute(ctx context.Context, taskID uuid.UUID, userID uuid.UUID) error
}
