package domain

import (
	"context"
	"time"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID      uint64
	Username    string
	Authorities []string

	// TokenID and ExpiresAt are set only when the principal came from a bearer token.
	TokenID   string
	ExpiresAt time.Time
}

// HasAuthority reports whether the principal holds any of the given authorities.
func (p *Principal) HasAuthority(authorities ...string) bool {
	for _, held := range p.Authorities {
		for _, want := range authorities {
			if held == want {
				return true
			}
		}
	}
	return false
}

// NewPrincipal builds the principal for a verified user.
func NewPrincipal(u *User) *Principal {
	return &Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Authorities: u.Authorities(),
	}
}

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying p. A nil p clears it.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// AuditorFromContext names the actor for createdBy/lastModifiedBy columns.
func AuditorFromContext(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok && p.Username != "" {
		return p.Username
	}
	return SystemAuditor
}
