package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/core/domain"
)

// RequirePrincipal rejects requests that reached it without an
// authenticated principal.
func RequirePrincipal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := domain.PrincipalFromContext(c.Request().Context()); !ok {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireAuthority enforces that the principal holds at least one of the
// given authorities (e.g. ROLE_USER). A missing principal is 401, a principal
// lacking every authority is 403.
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFromContext(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !p.HasAuthority(authorities...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
