package usecases_port

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

type ValidateTokenUseCasePort interface {
	Execute(ctx context.Context, tokenString string) (*domain.Claims, error)
}
