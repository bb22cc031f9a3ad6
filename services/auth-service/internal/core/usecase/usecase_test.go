package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

// fakeUserRepository is an in-memory UserRepositoryPort for tests.
type fakeUserRepository struct {
	users   map[uuid.UUID]*domain.User
	failAll bool
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.failAll {
		return errors.New("db down")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// fakeTokenService issues predictable tokens for tests.
type fakeTokenService struct {
	failGenerate bool
}

func (s *fakeTokenService) GenerateAccessToken(claims domain.Claims) (string, error) {
	if s.failGenerate {
		return "", errors.New("signer broken")
	}
	return fmt.Sprintf("access:%s", claims.UserID), nil
}

func (s *fakeTokenService) GenerateRefreshToken(claims domain.Claims) (string, error) {
	if s.failGenerate {
		return "", errors.New("signer broken")
	}
	return fmt.Sprintf("refresh:%s", claims.UserID), nil
}

func (s *fakeTokenService) ValidateAccessToken(token string) (*domain.Claims, error) {
	return parseFakeToken(token, "access:")
}

func (s *fakeTokenService) ValidateRefreshToken(token string) (*domain.Claims, error) {
	return parseFakeToken(token, "refresh:")
}

func parseFakeToken(token, prefix string) (*domain.Claims, error) {
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(token[len(prefix):])
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Claims{UserID: id}, nil
}

func TestRegisterUser(t *testing.T) {
	repo := newFakeUserRepository()
	uc := NewRegisterUserUseCase(repo, &fakeTokenService{})

	user, tokens, err := uc.Execute(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, fmt.Sprintf("access:%s", user.ID), tokens.AccessToken)
	assert.Equal(t, fmt.Sprintf("refresh:%s", user.ID), tokens.RefreshToken)

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CheckPassword("password123"))
}

func TestRegisterUserConflicts(t *testing.T) {
	repo := newFakeUserRepository()
	uc := NewRegisterUserUseCase(repo, &fakeTokenService{})

	_, _, err := uc.Execute(context.Background(), "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, _, err = uc.Execute(context.Background(), "alice@example.com", "other", "password123")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, _, err = uc.Execute(context.Background(), "other@example.com", "alice", "password123")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegisterUserRepositoryFailure(t *testing.T) {
	repo := newFakeUserRepository()
	repo.failAll = true
	uc := NewRegisterUserUseCase(repo, &fakeTokenService{})

	_, _, err := uc.Execute(context.Background(), "alice@example.com", "alice", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestLoginUser(t *testing.T) {
	repo := newFakeUserRepository()
	registerUC := NewRegisterUserUseCase(repo, &fakeTokenService{})
	loginUC := NewLoginUserUseCase(repo, &fakeTokenService{})

	registered, _, err := registerUC.Execute(context.Background(), "bob@example.com", "bob", "hunter2hunter2")
	require.NoError(t, err)

	user, tokens, err := loginUC.Execute(context.Background(), "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestLoginUserWrongPassword(t *testing.T) {
	repo := newFakeUserRepository()
	registerUC := NewRegisterUserUseCase(repo, &fakeTokenService{})
	loginUC := NewLoginUserUseCase(repo, &fakeTokenService{})

	_, _, err := registerUC.Execute(context.Background(), "bob@example.com", "bob", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = loginUC.Execute(context.Background(), "bob@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUserLooksLikeBadCredentials(t *testing.T) {
	loginUC := NewLoginUserUseCase(newFakeUserRepository(), &fakeTokenService{})

	_, _, err := loginUC.Execute(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepository()
	tokenSvc := &fakeTokenService{}
	registerUC := NewRegisterUserUseCase(repo, tokenSvc)
	refreshUC := NewRefreshTokenUseCase(repo, tokenSvc)

	user, tokens, err := registerUC.Execute(context.Background(), "carol@example.com", "carol", "password123")
	require.NoError(t, err)

	rotated, err := refreshUC.Execute(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("access:%s", user.ID), rotated.AccessToken)
	assert.Equal(t, fmt.Sprintf("refresh:%s", user.ID), rotated.RefreshToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepository()
	tokenSvc := &fakeTokenService{}
	registerUC := NewRegisterUserUseCase(repo, tokenSvc)
	refreshUC := NewRefreshTokenUseCase(repo, tokenSvc)

	_, tokens, err := registerUC.Execute(context.Background(), "carol@example.com", "carol", "password123")
	require.NoError(t, err)

	_, err = refreshUC.Execute(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefreshTokenDeletedUser(t *testing.T) {
	repo := newFakeUserRepository()
	tokenSvc := &fakeTokenService{}
	refreshUC := NewRefreshTokenUseCase(repo, tokenSvc)

	// Token references a user the repository does not know.
	_, err := refreshUC.Execute(context.Background(), fmt.Sprintf("refresh:%s", uuid.New()))
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidateToken(t *testing.T) {
	tokenSvc := &fakeTokenService{}
	uc := NewValidateTokenUseCase(tokenSvc)

	id := uuid.New()
	claims, err := uc.Execute(context.Background(), fmt.Sprintf("access:%s", id))
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	_, err = uc.Execute(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
