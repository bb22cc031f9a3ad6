package token_adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
)

const issuer = "auth-service"

// TokenService implements TokenServicePort on top of HS256 JWTs.
// Access and refresh tokens are signed with different secrets so a
// leaked access token can never be replayed against the refresh flow.
type TokenService struct {
	accessSigningKey  []byte
	refreshSigningKey []byte
	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
}

func NewTokenService(accessSigningKey, refreshSigningKey string, accessTokenTTL, refreshTokenTTL time.Duration) (*TokenService, error) {
	if accessSigningKey == "" || refreshSigningKey == "" {
		return nil, fmt.Errorf("JWT signing keys cannot be empty")
	}
	return &TokenService{
		accessSigningKey:  []byte(accessSigningKey),
		refreshSigningKey: []byte(refreshSigningKey),
		accessTokenTTL:    accessTokenTTL,
		refreshTokenTTL:   refreshTokenTTL,
	}, nil
}

// jwtCustomClaims is our rendition of the standard JWT claims.
type jwtCustomClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

func (s *TokenService) GenerateAccessToken(claims domain.Claims) (string, error) {
	return s.generate(claims, s.accessSigningKey, s.accessTokenTTL)
}

func (s *TokenService) GenerateRefreshToken(claims domain.Claims) (string, error) {
	return s.generate(claims, s.refreshSigningKey, s.refreshTokenTTL)
}

func (s *TokenService) ValidateAccessToken(tokenString string) (*domain.Claims, error) {
	return s.validate(tokenString, s.accessSigningKey)
}

func (s *TokenService) ValidateRefreshToken(tokenString string) (*domain.Claims, error) {
	return s.validate(tokenString, s.refreshSigningKey)
}

func (s *TokenService) generate(claims domain.Claims, signingKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	jwtClaims := &jwtCustomClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signedToken, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

func (s *TokenService) validate(tokenString string, signingKey []byte) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject anything signed with a different algorithm family.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Claims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}
