package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is the main domain entity.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claims is the payload baked into the JWT.
type Claims struct {
	UserID   uuid.UUID
	Email    string
	Username string
}

// TokenPair holds the two tokens issued on register/login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// NewUser creates a new user. Password hashing happens here.
func NewUser(email, username, password string) (*User, error) {
	// bcrypt.DefaultCost is a reasonable speed/strength balance.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
