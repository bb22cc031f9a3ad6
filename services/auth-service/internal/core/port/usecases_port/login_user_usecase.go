package usecases_port

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

type LoginUserUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)
}
