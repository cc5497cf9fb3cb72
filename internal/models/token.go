package models

import (
	"time"

	"github.com/google/uuid"
)

// Role selects the secret and lifetime applied to a token
type Role string

const (
	RoleAccess  Role = "access"
	RoleRefresh Role = "refresh"
)

type IssuedToken struct {
	ID        string // jti, used as revocation key
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Token pair issued by TokenManager, AuthService
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// Decoded and verified token payload
type TokenClaims struct {
	ID        string
	UserID    uuid.UUID
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the identity attached to an authenticated request
type Principal struct {
	UserID uuid.UUID
}
