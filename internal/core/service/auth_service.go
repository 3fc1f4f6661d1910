package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// AuthService verifies Basic credentials against the credential store.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, log: log}
}

// Authenticate looks the user up by username together with its roles and
// checks the password. Every failure is reported as 401 so callers cannot
// tell an unknown username from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	user, err := s.users.FindByUsernameWithRoles(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate %q: %w", username, err)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		s.log.Warn().Err(err).Uint64("user_id", user.ID).Msg("stored digest is malformed")
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return domain.NewPrincipal(user), nil
}
