package services

import (
	"context"
	"errors"

	"face-attendance/domain/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUsernameTaken   = errors.New("username already exists")
)

// LoginResult carries the signed token and the role embedded in it.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type AuthService interface {
	// Login verifies credentials and issues a signed token with a fixed
	// one-hour expiry.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// SignUp creates a new account and returns its username.
	SignUp(ctx context.Context, username, password string, role models.Role) (string, error)
}
