package usecases_port

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

type RegisterUserUseCasePort interface {
	Execute(ctx context.Context, email, username, password string) (*domain.User, *domain.TokenPair, error)
}
