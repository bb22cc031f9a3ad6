package usecases_port

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

type RefreshTokenUseCasePort interface {
	// Execute exchanges a valid refresh token for a fresh token pair.
	Execute(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}
