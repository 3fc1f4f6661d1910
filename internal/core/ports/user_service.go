package ports

import (
	"context"
	"time"

	"github.com/postblog/platform/internal/core/domain"
)

// CreateUserInput is a signup candidate; Password is plaintext.
type CreateUserInput struct {
	Name     string
	Email    string
	Age      *int
	Username string
	Password string
}

// UpdateUserInput patches a user's profile. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name  *string
	Age   *int
	Email *string
}

// UserView is the public projection of a user. It never carries the digest.
type UserView struct {
	ID             uint64
	Name           string
	Email          string
	Age            *int
	Username       string
	Registered     bool
	Roles          []string
	CreatedAt      time.Time
	CreatedBy      string
	LastModifiedAt time.Time
	LastModifiedBy string
}

// UserService is the user directory.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*UserView, error)
	GetUserByID(ctx context.Context, id uint64) (*UserView, error)
	GetUserByUsername(ctx context.Context, username string) (*UserView, error)
	UpdateUserByID(ctx context.Context, id uint64, in UpdateUserInput) (*UserView, error)
	GetAllUsers(ctx context.Context) ([]UserView, error)
	DeleteUserByID(ctx context.Context, id uint64) error
	CheckPassword(ctx context.Context, email, password string) (bool, error)
}

// SessionService drives the LoggedOut ↔ LoggedIn state machine.
type SessionService interface {
	Login(ctx context.Context, id uint64, password string) error
	Logout(ctx context.Context, id uint64) error
	IsLoggedIn(ctx context.Context, id uint64) error
}

// Authenticator verifies Basic credentials and yields a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
}

// TokenService exchanges principals for bearer tokens and back.
type TokenService interface {
	Issue(p *domain.Principal) (token string, expiresAt time.Time, err error)
	Verify(ctx context.Context, token string) (*domain.Principal, error)
	Revoke(ctx context.Context, p *domain.Principal) error
}
