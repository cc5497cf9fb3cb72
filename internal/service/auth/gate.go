package auth

import (
	"context"
	"strings"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/metrics"
	"github.com/nkiryanov/tastybites/internal/models"
)

// Header must be "<scheme> <token>", the scheme itself is not interpreted
func tokenFromHeader(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", apperrors.ErrMissingCredentials
	}

	return parts[1], nil
}

// Resolve authorization header value to principal
// The user is not loaded: handler that needs the full record has to check it still exists
func (s *AuthService) Authenticate(ctx context.Context, header string) (principal models.Principal, err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventAuthenticate, err) }()

	token, err := tokenFromHeader(header)
	if err != nil {
		return principal, err
	}

	claims, err := s.tokenManager.Decode(token, models.RoleAccess, s.now())
	if err != nil {
		return principal, err
	}

	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return principal, err
	}

	return models.Principal{UserID: claims.UserID}, nil
}

// Stricter than Authenticate: the token owner has to exist too
// Any failure is reported as false
func (s *AuthService) IsValid(ctx context.Context, header string) bool {
	principal, err := s.Authenticate(ctx, header)
	if err != nil {
		return false
	}

	_, err = s.userService.GetUserByID(ctx, principal.UserID)
	return err == nil
}
