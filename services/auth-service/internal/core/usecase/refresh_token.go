package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port"
)

type RefreshTokenUseCase struct {
	userRepo port.UserRepositoryPort
	tokenSvc port.TokenServicePort
}

func NewRefreshTokenUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RefreshToken",
	})
	ucLogger.Info("Use case started: attempting to refresh tokens", nil)

	claims, err := uc.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		ucLogger.Warn("Refresh failed: invalid refresh token", port.Fields{"error": err.Error()})
		return nil, domain.ErrTokenInvalid
	}

	// Re-load the user so rotated tokens carry current claims and a
	// deleted user cannot keep refreshing forever.
	user, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ucLogger.Warn("Refresh failed: user no longer exists", nil)
			return nil, domain.ErrTokenInvalid
		}
		ucLogger.Error("Repository failed to find user by id", err, nil)
		return nil, fmt.Errorf("internal server error: %w", err)
	}

	tokens, err := issueTokenPair(uc.tokenSvc, user)
	if err != nil {
		ucLogger.Error("Failed to generate tokens during refresh", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished: tokens refreshed successfully", port.Fields{"user_id": user.ID.String()})
	return tokens, nil
}
