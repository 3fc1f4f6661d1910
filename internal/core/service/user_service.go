package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// UserService implements the user directory.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, hasher: hasher, logger: logger}
}

// CreateUser hashes the plaintext password and persists a new user linked to
// the default USER role. An email already on file fails with
// domain.ErrUserExists before anything is written.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error) {
	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("%w: %w", domain.ErrCreateUser, err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCreateUser, err)
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDefaultRole, err)
	}

	username := in.Username
	if username == "" {
		username = in.Email
	}

	user := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Age:      in.Age,
		Username: username,
		Password: digest,
	}
	if err := s.users.Create(ctx, user, []domain.Role{*role}); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %w", domain.ErrCreateUser, err)
	}

	s.logger.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user created")

	return toUserView(user), nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint64) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserView(user), nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*ports.UserView, error) {
	user, err := s.users.FindByUsernameWithRoles(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUsernameNotFound
		}
		return nil, err
	}
	return toUserView(user), nil
}

// UpdateUserByID overwrites name, age and email. Password and login state are
// never touched on this path.
func (s *UserService) UpdateUserByID(ctx context.Context, id uint64, in ports.UpdateUserInput) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.Email != nil {
		user.Email = *in.Email
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Uint64("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpdateUser, err)
	}

	refreshed, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserView(refreshed), nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]ports.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGetUsers, err)
	}
	out := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserView(u))
	}
	return out, nil
}

// DeleteUserByID permanently removes the user. There is no soft delete.
func (s *UserService) DeleteUserByID(ctx context.Context, id uint64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrDeleteUser, err)
	}
	s.logger.Info().Uint64("user_id", id).Msg("user deleted")
	return nil
}

// CheckPassword reports whether password matches the digest stored for email.
// An unknown email is domain.ErrEmailNotFound, never false.
func (s *UserService) CheckPassword(ctx context.Context, email, password string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, domain.ErrEmailNotFound
		}
		return false, err
	}
	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrMalformedDigest, err)
	}
	return ok, nil
}

// toUserView projects the stored user onto its public view. The digest is
// deliberately left out.
func toUserView(u *domain.User) *ports.UserView {
	return &ports.UserView{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Age:            u.Age,
		Username:       u.Username,
		Registered:     u.Registered,
		Roles:          u.RoleNames(),
		CreatedAt:      u.CreatedAt,
		CreatedBy:      u.CreatedBy,
		LastModifiedAt: u.LastModifiedAt,
		LastModifiedBy: u.LastModifiedBy,
	}
}
