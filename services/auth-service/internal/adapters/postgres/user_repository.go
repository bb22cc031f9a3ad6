package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port"
)

// UserRepository implements UserRepositoryPort for PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &UserRepository{
		pool: pool,
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "Create",
		"user_id":   user.ID.String(),
		"email":     user.Email,
	})

	query := `INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	repoLogger.Debug("Executing query to create user.", nil)
	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to create user", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create user: %w", err)
	}

	repoLogger.Debug("User created successfully.", nil)
	return nil
}

// FindByEmail returns (nil, nil) when no user matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "FindByEmail",
		"email":     email,
	})

	query := `SELECT id, email, username, password_hash, created_at, updated_at FROM users WHERE email = $1`

	repoLogger.Debug("Executing query to find user by email.", nil)
	user, err := r.scanUser(ctx, query, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("User not found by email.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to find user by email", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	repoLogger.Debug("User found by email.", port.Fields{"user_id": user.ID.String()})
	return user, nil
}

// FindByID returns domain.ErrUserNotFound when no user matches.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "FindByID",
		"user_id":   id.String(),
	})

	query := `SELECT id, email, username, password_hash, created_at, updated_at FROM users WHERE id = $1`

	repoLogger.Debug("Executing query to find user by ID.", nil)
	user, err := r.scanUser(ctx, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("User not found by ID.", nil)
			return nil, domain.ErrUserNotFound
		}
		repoLogger.Error("Failed to find user by ID", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	repoLogger.Debug("User found by ID.", nil)
	return user, nil
}

// FindByEmailOrUsername returns (nil, nil) when neither matches.
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "FindByEmailOrUsername",
		"email":     email,
		"username":  username,
	})

	query := `SELECT id, email, username, password_hash, created_at, updated_at FROM users
	          WHERE email = $1 OR username = $2 LIMIT 1`

	repoLogger.Debug("Executing query to find user by email or username.", nil)
	user, err := r.scanUser(ctx, query, email, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		repoLogger.Error("Failed to find user by email or username", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find user by email or username: %w", err)
	}

	repoLogger.Debug("User found by email or username.", port.Fields{"user_id": user.ID.String()})
	return user, nil
}

func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
