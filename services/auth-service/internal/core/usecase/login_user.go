package usecase

import (
	"context"
	"fmt"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port"
)

type LoginUserUseCase struct {
	userRepo port.UserRepositoryPort
	tokenSvc port.TokenServicePort
}

func NewLoginUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

func (uc *LoginUserUseCase) Execute(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "LoginUser",
		"email":    email,
	})
	ucLogger.Info("Use case started: attempting to login user", nil)

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed to find user by email", err, nil)
		return nil, nil, fmt.Errorf("internal server error: %w", err)
	}
	if user == nil {
		// Do not reveal whether the email exists.
		ucLogger.Warn("Login failed: user not found", nil)
		return nil, nil, domain.ErrInvalidCredentials
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	if !user.CheckPassword(password) {
		ucLogger.Warn("Login failed: invalid credentials", nil)
		return nil, nil, domain.ErrInvalidCredentials
	}

	tokens, err := issueTokenPair(uc.tokenSvc, user)
	if err != nil {
		ucLogger.Error("Failed to generate tokens after successful login", err, nil)
		return nil, nil, err
	}

	ucLogger.Info("Use case finished: user logged in successfully", nil)
	return user, tokens, nil
}
