package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

// UserRepositoryPort defines the contract for user persistence.
type UserRepositoryPort interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByEmail returns (nil, nil) when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// FindByEmailOrUsername is used for the uniqueness check on registration.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
}
