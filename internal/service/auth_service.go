package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pqrssi-service/internal/auth"
	"github.com/spec-kit/pqrssi-service/internal/domain"
	"github.com/spec-kit/pqrssi-service/internal/repository"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionManager
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Sessions   *auth.SessionManager
	Logger     *zap.Logger
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		logger:     deps.Logger,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates a new user account. The raw password is checked
// against the policy and only its bcrypt hash is stored. Email matching
// is a case-sensitive exact match.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewStorageFailure(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login authenticates the credentials and opens a session. Unknown email
// and wrong password yield distinct user-facing messages, matching the
// product's behavior.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("user not found")
		}
		return nil, "", time.Time{}, apperrors.NewStorageFailure(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("incorrect password")
	}

	token, expiresAt, err := s.sessions.Open(ctx, user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewStorageFailure(err)
	}
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return user, token, expiresAt, nil
}

// Logout destroys the session referenced by the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Close(ctx, token); err != nil {
		return apperrors.NewStorageFailure(err)
	}
	return nil
}

// SeedAdmin creates the administrator account on boot when configured
// and not already present.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewStorageFailure(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return apperrors.NewStorageFailure(err)
	}
	s.logger.Info("admin user seeded", zap.Int64("user_id", admin.ID))
	return nil
}
