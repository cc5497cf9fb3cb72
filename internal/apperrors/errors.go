package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Authentication failures
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignature   = errors.New("token signature is invalid")
	ErrExpiredToken       = errors.New("token is expired")
	ErrTokenRevoked       = errors.New("token is revoked")
	ErrRevocationDisabled = errors.New("token revocation is not configured")

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRecipeInvalid  = errors.New("recipe is invalid")
)
