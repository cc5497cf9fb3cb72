package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/metrics"
	"github.com/nkiryanov/tastybites/internal/models"
	"github.com/nkiryanov/tastybites/internal/repository"
	"github.com/nkiryanov/tastybites/internal/service/auth/tokenmanager"
)

const defaultRefreshCookieName = "refresh_token"

// User store the auth service depends on
type userService interface {
	// Has to return apperrors.ErrUserAlreadyExists if user with email exists
	CreateUser(ctx context.Context, email string, password string, name string) (models.User, error)

	// Has to return apperrors.ErrInvalidCredentials both for unknown email and wrong password
	VerifyCredentials(ctx context.Context, email string, password string) (models.User, error)

	// Has to return apperrors.ErrUserNotFound if user not found
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type Config struct {
	// Cookie to keep refresh token in
	// If not set than default is used
	RefreshCookieName string

	// Send refresh cookie over https only
	CookieSecure bool

	// Token denylist
	// Nil disables revocation: tokens stay valid until they expire
	Revocation repository.RevocationStore

	// Time source, time.Now if not set
	Now func() time.Time

	// Optional auth events collector
	Metrics *metrics.Metrics
}

// Auth service
type AuthService struct {
	cookieName   string
	cookieSecure bool
	revocation   repository.RevocationStore
	now          func() time.Time
	metrics      *metrics.Metrics

	// Manager to issue and decode tokens (access and refresh)
	tokenManager *tokenmanager.TokenManager

	userService userService
}

func NewService(cfg Config, tokenManager *tokenmanager.TokenManager, userService userService) (*AuthService, error) {
	if tokenManager == nil || userService == nil {
		return nil, errors.New("token manager and user service must not be nil")
	}

	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = defaultRefreshCookieName
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &AuthService{
		cookieName:   cfg.RefreshCookieName,
		cookieSecure: cfg.CookieSecure,
		revocation:   cfg.Revocation,
		now:          cfg.Now,
		metrics:      cfg.Metrics,
		tokenManager: tokenManager,
		userService:  userService,
	}, nil
}

// Issue access and refresh tokens for user
func (s *AuthService) IssuePair(userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair
	now := s.now()

	access, err := s.tokenManager.Encode(userID, models.RoleAccess, now)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	refresh, err := s.tokenManager.Encode(userID, models.RoleRefresh, now)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) Register(ctx context.Context, email string, password string, name string) (pair models.TokenPair, err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventRegister, err) }()

	user, err := s.userService.CreateUser(ctx, email, password, name)
	if err != nil {
		return pair, err
	}

	return s.IssuePair(user.ID)
}

// Login user with email and password
// Unknown email and wrong password are reported the same way: apperrors.ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email string, password string) (pair models.TokenPair, err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventLogin, err) }()

	user, err := s.userService.VerifyCredentials(ctx, email, password)
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUserNotFound):
		return pair, apperrors.ErrInvalidCredentials
	case err != nil:
		return pair, fmt.Errorf("can't verify credentials. Err: %w", err)
	}

	return s.IssuePair(user.ID)
}

// Exchange refresh token to new access token
// The refresh token is not rotated and remains usable until it expires or revoked
func (s *AuthService) Refresh(ctx context.Context, refresh string) (access models.IssuedToken, err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventRefresh, err) }()

	now := s.now()

	claims, err := s.tokenManager.Decode(refresh, models.RoleRefresh, now)
	if err != nil {
		return access, err
	}

	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return access, err
	}

	// Account could be deleted while refresh token still alive
	user, err := s.userService.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return access, err
	}

	access, err = s.tokenManager.Encode(user.ID, models.RoleAccess, now)
	if err != nil {
		return access, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return access, nil
}

// Revoke access token from authorization header and refresh token if it belongs to the same user
// Invalid or foreign refresh token is ignored: it can't be used anyway
func (s *AuthService) Logout(ctx context.Context, header string, refresh string) (err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventLogout, err) }()

	if s.revocation == nil {
		return apperrors.ErrRevocationDisabled
	}

	now := s.now()

	token, err := tokenFromHeader(header)
	if err != nil {
		return err
	}

	access, err := s.tokenManager.Decode(token, models.RoleAccess, now)
	if err != nil {
		return err
	}

	if err := s.revocation.Revoke(ctx, access.ID, access.ExpiresAt.Sub(now)); err != nil {
		return fmt.Errorf("can't revoke access token. Err: %w", err)
	}

	if refresh == "" {
		return nil
	}

	claims, err := s.tokenManager.Decode(refresh, models.RoleRefresh, now)
	if err != nil || claims.UserID != access.UserID {
		return nil
	}

	if err := s.revocation.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(now)); err != nil {
		return fmt.Errorf("can't revoke refresh token. Err: %w", err)
	}

	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, tokenID string) error {
	if s.revocation == nil {
		return nil
	}

	revoked, err := s.revocation.IsRevoked(ctx, tokenID)
	switch {
	case err != nil:
		return fmt.Errorf("can't check token revocation. Err: %w", err)
	case revoked:
		return apperrors.ErrTokenRevoked
	default:
		return nil
	}
}
