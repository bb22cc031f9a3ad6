package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user with this email or username already exists")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)
