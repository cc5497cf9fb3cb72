package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/models"
	"github.com/nkiryanov/tastybites/internal/repository"
	"github.com/nkiryanov/tastybites/internal/service/auth"
)

var errEmptyPassword = errors.New("password must not be empty")

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage

	// Hash compared when email is unknown, so the response time doesn't tell whether user exists
	dummyHash func() (string, error)
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(uuid.NewString())
		}),
	}
}

// Emails are case insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) CreateUser(ctx context.Context, email string, password string, name string) (models.User, error) {
	var user models.User

	if password == "" {
		return user, errEmptyPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	user, err = s.storage.User().CreateUser(ctx, normalizeEmail(email), strings.TrimSpace(name), hash)
	if err != nil {
		return user, fmt.Errorf("can't create user. Err: %w", err)
	}

	return user, nil
}

// Return user if email and password match
// Unknown email and wrong password both return apperrors.ErrInvalidCredentials
func (s *UserService) VerifyCredentials(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, normalizeEmail(email))

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		dummy, hashErr := s.dummyHash()
		if hashErr == nil {
			_ = s.hasher.Compare(dummy, password)
		}
		return models.User{}, apperrors.ErrInvalidCredentials
	case err != nil:
		return models.User{}, fmt.Errorf("can't get user. Err: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}

// Fields to update, nil ones stay untouched
type UpdateUserParams struct {
	Name     *string
	Password *string
}

func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, params UpdateUserParams) (models.User, error) {
	var name, hash *string

	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		name = &trimmed
	}

	if params.Password != nil {
		if *params.Password == "" {
			return models.User{}, errEmptyPassword
		}

		h, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("can't use this as password, Err: %w", err)
		}
		hash = &h
	}

	return s.storage.User().UpdateUser(ctx, userID, name, hash)
}

// Delete user account, user recipes are deleted too
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.storage.User().DeleteUser(ctx, userID)
}
