package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload issued by the user service.
type tokenClaims struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Revoked token ids are
// kept in the deny-list until the token would have expired anyway.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	denylist ports.TokenDenylist
	log      zerolog.Logger
	now      func() time.Time
}

// NewTokenService returns a TokenService. denylist may be nil, in which case
// Revoke is a no-op and tokens stay valid until expiry.
func NewTokenService(secret string, ttl time.Duration, denylist ports.TokenDenylist, log zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		log:      log,
		now:      time.Now,
	}
}

func (s *TokenService) Issue(p *domain.Principal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := tokenClaims{
		Username:    p.Username,
		Authorities: p.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *TokenService) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	return &domain.Principal{
		UserID:      userID,
		Username:    claims.Username,
		Authorities: claims.Authorities,
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Revoke deny-lists the principal's token. Principals that did not come from
// a token have nothing to revoke.
func (s *TokenService) Revoke(ctx context.Context, p *domain.Principal) error {
	if p == nil || p.TokenID == "" || s.denylist == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info().Str("jti", p.TokenID).Uint64("user_id", p.UserID).Msg("token revoked")
	return nil
}
