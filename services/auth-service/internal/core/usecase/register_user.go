package usecase

import (
	"context"
	"fmt"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port"
)

type RegisterUserUseCase struct {
	userRepo port.UserRepositoryPort
	tokenSvc port.TokenServicePort
}

func NewRegisterUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, email, username, password string) (*domain.User, *domain.TokenPair, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterUser",
		"email":    email,
	})
	ucLogger.Info("Use case started: attempting to register user", nil)

	existingUser, err := uc.userRepo.FindByEmailOrUsername(ctx, email, username)
	if err != nil {
		ucLogger.Error("Repository failed while checking for existing user", err, nil)
		return nil, nil, fmt.Errorf("internal server error: %w", err)
	}
	if existingUser != nil {
		ucLogger.Warn("Registration failed: email or username already in use", nil)
		return nil, nil, domain.ErrUserAlreadyExists
	}

	// Password hashing happens inside NewUser.
	user, err := domain.NewUser(email, username, password)
	if err != nil {
		ucLogger.Error("Failed to create new user domain object", err, nil)
		return nil, nil, err
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	if err := uc.userRepo.Create(ctx, user); err != nil {
		ucLogger.Error("Repository failed to create user", err, nil)
		return nil, nil, err
	}

	tokens, err := issueTokenPair(uc.tokenSvc, user)
	if err != nil {
		ucLogger.Error("Failed to generate tokens after successful registration", err, nil)
		return nil, nil, err
	}

	ucLogger.Info("Use case finished: user registered successfully", nil)
	return user, tokens, nil
}

// issueTokenPair generates an access/refresh pair for a user. Shared by
// register, login and refresh flows.
func issueTokenPair(tokenSvc port.TokenServicePort, user *domain.User) (*domain.TokenPair, error) {
	claims := domain.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}

	accessToken, err := tokenSvc.GenerateAccessToken(claims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := tokenSvc.GenerateRefreshToken(claims)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
