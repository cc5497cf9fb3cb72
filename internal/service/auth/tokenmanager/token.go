package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/models"
)

const (
	defaultAccessTokenTTL  = 7 * 24 * time.Hour
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 14 * 24 * time.Hour
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID   `json:"user_id"`
	Role   models.Role `json:"typ"`
}

// Token manager with sensible default
type Config struct {
	// Secret keys to sign access and refresh tokens
	// Both required and must differ, so token of one role never verifies as the other
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type roleKey struct {
	secret []byte
	ttl    time.Duration
}

// Token manager is immutable after construction and safe for concurrent use
type TokenManager struct {
	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	keys map[models.Role]roleKey
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secret keys must not be empty")
	}

	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secret keys must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("signing method %q is not supported, use HMAC one", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	// Token times are whole seconds, shorter lifetime gives token expired on issue
	if cfg.AccessTTL < time.Second || cfg.RefreshTTL < time.Second {
		return nil, errors.New("token lifetimes must be at least one second")
	}

	return &TokenManager{
		alg: alg,
		keys: map[models.Role]roleKey{
			models.RoleAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			models.RoleRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		},
	}, nil
}

// Lifetime of tokens with the role
func (m *TokenManager) TTL(role models.Role) time.Duration {
	return m.keys[role].ttl
}

// Sign new token for user
// JWT keeps seconds only, so now is truncated to make IssuedToken match the encoded claims
func (m *TokenManager) Encode(userID uuid.UUID, role models.Role, now time.Time) (models.IssuedToken, error) {
	key, ok := m.keys[role]
	if !ok {
		return models.IssuedToken{}, fmt.Errorf("unknown token role %q", role)
	}

	now = now.Truncate(time.Second)
	expiresAt := now.Add(key.ttl)
	id := uuid.NewString()

	token := jwt.NewWithClaims(
		m.alg,
		tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        id,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: userID,
			Role:   role,
		},
	)
	value, err := token.SignedString(key.secret)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing %s token. Err: %w", role, err)
	}

	return models.IssuedToken{
		ID:        id,
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse and validate token of the role
// Return apperrors.ErrExpiredToken if now >= expires at, apperrors.ErrInvalidSignature on any other failure
func (m *TokenManager) Decode(value string, role models.Role, now time.Time) (models.TokenClaims, error) {
	key, ok := m.keys[role]
	if !ok {
		return models.TokenClaims{}, fmt.Errorf("unknown token role %q: %w", role, apperrors.ErrInvalidSignature)
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) {
			return key.secret, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.TokenClaims{}, apperrors.ErrExpiredToken
	case err != nil:
		return models.TokenClaims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidSignature, err)
	case claims.Role != role || claims.UserID == uuid.Nil || claims.ID == "" || claims.IssuedAt == nil:
		return models.TokenClaims{}, apperrors.ErrInvalidSignature
	}

	return models.TokenClaims{
		ID:        claims.ID,
		UserID:    claims.UserID,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
