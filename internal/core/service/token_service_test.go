package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/postblog/platform/internal/core/domain"
)

type stubDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Time)}
}

func (d *stubDenylist) Revoke(_ context.Context, id string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[id] = until
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[id]
	return ok, nil
}

const testSecret = "test-secret"

func testPrincipal() *domain.Principal {
	return &domain.Principal{UserID: 7, Username: "ana", Authorities: []string{"ROLE_USER"}}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, nil, discardLogger)

	token, exp, err := svc.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry must be in the future, got %v", exp)
	}

	p, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != 7 || p.Username != "ana" {
		t.Errorf("unexpected principal %+v", p)
	}
	if !p.HasAuthority("ROLE_USER") {
		t.Errorf("authorities lost: %v", p.Authorities)
	}
	if p.TokenID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, nil, discardLogger)
	other := NewTokenService("another-secret", time.Hour, nil, discardLogger)
	foreign, _, _ := other.Issue(testPrincipal())

	expired := NewTokenService(testSecret, time.Hour, nil, discardLogger)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, _ := expired.Issue(testPrincipal())

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "7"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": foreign,
		"expired":      stale,
		"alg none":     none,
		"empty":        "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenService_Revoke(t *testing.T) {
	deny := newStubDenylist()
	svc := NewTokenService(testSecret, time.Hour, deny, discardLogger)
	ctx := context.Background()

	token, _, _ := svc.Issue(testPrincipal())
	p, err := svc.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := svc.Revoke(ctx, p); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Verify(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("revoked token must be rejected, got %v", err)
	}
}

func TestTokenService_Revoke_BasicPrincipalIsNoop(t *testing.T) {
	deny := newStubDenylist()
	svc := NewTokenService(testSecret, time.Hour, deny, discardLogger)

	if err := svc.Revoke(context.Background(), testPrincipal()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deny.revoked) != 0 {
		t.Errorf("nothing should be revoked, got %v", deny.revoked)
	}
}
