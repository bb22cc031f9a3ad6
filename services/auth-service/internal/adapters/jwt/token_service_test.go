package token_adapter

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func testClaims() domain.Claims {
	return domain.Claims{
		UserID:   uuid.New(),
		Email:    "alice@example.com",
		Username: "alice",
	}
}

func TestNewTokenServiceRequiresSecrets(t *testing.T) {
	_, err := NewTokenService("", "refresh", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService("access", "", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	claims := testClaims()

	token, err := svc.GenerateAccessToken(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.Username, parsed.Username)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	claims := testClaims()

	token, err := svc.GenerateRefreshToken(claims)
	require.NoError(t, err)

	parsed, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
}

func TestAccessTokenRejectedByRefreshValidator(t *testing.T) {
	// The two flows use different signing keys, tokens must not cross over.
	svc := newTestService(t)

	accessToken, err := svc.GenerateAccessToken(testClaims())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	refreshToken, err := svc.GenerateRefreshToken(testClaims())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc, err := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(testClaims())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateAccessToken("")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenSignedWithDifferentKeyRejected(t *testing.T) {
	svc := newTestService(t)
	other, err := NewTokenService("other-access", "other-refresh", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := other.GenerateAccessToken(testClaims())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
