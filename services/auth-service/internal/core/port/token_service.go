package port

import (
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

// TokenServicePort defines the contract for issuing and validating JWTs.
type TokenServicePort interface {
	GenerateAccessToken(claims domain.Claims) (string, error)
	GenerateRefreshToken(claims domain.Claims) (string, error)
	ValidateAccessToken(token string) (*domain.Claims, error)
	ValidateRefreshToken(token string) (*domain.Claims, error)
}
