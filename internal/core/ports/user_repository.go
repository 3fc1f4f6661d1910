package ports

import (
	"context"
	"time"

	"github.com/postblog/platform/internal/core/domain"
)

// UserRepository is the credential store. Lookups return
// domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	// Create inserts the user, links the given roles and sets user.ID.
	// Returns domain.ErrUserExists on a unique email/username violation.
	Create(ctx context.Context, user *domain.User, roles []domain.Role) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameWithRoles fetches the user and its roles in one round trip.
	FindByUsernameWithRoles(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateProfile persists name, age and email only.
	UpdateProfile(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint64) error
	// SetRegistered flips the login flag only when it currently equals from.
	// It reports whether a row was changed.
	SetRegistered(ctx context.Context, id uint64, from, to bool) (bool, error)
}

// RoleRepository holds the shared role reference data.
type RoleRepository interface {
	// Ensure returns the role with the given name, creating it when absent.
	Ensure(ctx context.Context, name string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

// SessionEventRepository is the append-only log of login/logout attempts.
type SessionEventRepository interface {
	Insert(ctx context.Context, event *domain.SessionEvent) error
}

// TokenDenylist remembers revoked token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
