package usecase

import (
	"context"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port"
)

type ValidateTokenUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewValidateTokenUseCase(tokenSvc port.TokenServicePort) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{
		tokenSvc: tokenSvc,
	}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, tokenString string) (*domain.Claims, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	claims, err := uc.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		logger.Warn("Token validation failed", port.Fields{
			"use_case": "ValidateToken",
			"error":    err.Error(),
		})
		return nil, domain.ErrTokenInvalid
	}

	return claims, nil
}
