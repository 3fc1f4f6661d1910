package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// AuthHandler exchanges credentials for bearer tokens and ends sessions.
type AuthHandler struct {
	tokens ports.TokenService
}

func NewAuthHandler(tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Token issues a bearer token for the already authenticated principal.
//
// @Summary      Exchange credentials for a bearer token
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return domain.ErrUnauthenticated
	}

	token, exp, err := h.tokens.Issue(p)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: exp})
}

// Logout handles POST /logout. A bearer token used on this request is
// revoked; Basic callers simply get 204.
//
// @Summary      End the caller's session
// @Tags         auth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if p, ok := domain.PrincipalFromContext(c.Request().Context()); ok {
		if err := h.tokens.Revoke(c.Request().Context(), p); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}
