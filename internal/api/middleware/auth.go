package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// AuthConfig wires the credential checkers. Either may be nil, in which case
// that scheme is ignored and the request continues unauthenticated.
type AuthConfig struct {
	Basic   ports.Authenticator
	Bearer  ports.TokenService
	Skipper echomiddleware.Skipper
}

// Auth resolves the Authorization header into a domain.Principal stored on
// the request context. A missing header is not an error: routes that need a
// principal are guarded by RequirePrincipal.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	skipper := cfg.Skipper
	if skipper == nil {
		skipper = echomiddleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			scheme, credentials, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !ok {
				return next(c)
			}

			var (
				p   *domain.Principal
				err error
			)
			switch {
			case strings.EqualFold(scheme, "basic") && cfg.Basic != nil:
				p, err = basic(c, cfg.Basic, credentials)
				observe("basic", err)
			case strings.EqualFold(scheme, "bearer") && cfg.Bearer != nil:
				p, err = cfg.Bearer.Verify(c.Request().Context(), strings.TrimSpace(credentials))
				observe("bearer", err)
			default:
				return next(c)
			}
			if err != nil {
				return err
			}

			c.SetRequest(c.Request().WithContext(domain.ContextWithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

// basic decodes "username:password", splitting at the first colon so
// passwords may contain colons.
func basic(c echo.Context, authn ports.Authenticator, encoded string) (*domain.Principal, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok || username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return authn.Authenticate(c.Request().Context(), username, password)
}

func observe(scheme string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(scheme, result).Inc()
}

// SkipSignup exempts POST /api/users from authentication.
func SkipSignup(c echo.Context) bool {
	return c.Request().Method == "POST" && c.Path() == "/api/users"
}
