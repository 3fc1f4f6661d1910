package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// SessionHandler drives the login state machine of a user.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login handles POST /api/users/:id/login.
//
// @Summary      Log a user in
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int              true  "User ID"
// @Param        body  body      passwordRequest  true  "Password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users/{id}/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	err = h.sessions.Login(c.Request().Context(), id, req.Password)
	observeTransition(domain.TransitionLogin, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user logged in"})
}

// Logout handles POST /api/users/:id/logout.
//
// @Summary      Log a user out
// @Tags         sessions
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      412  {object}  errorResponse
// @Router       /api/users/{id}/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	err = h.sessions.Logout(c.Request().Context(), id)
	observeTransition(domain.TransitionLogout, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user logged out"})
}

// IsLoggedIn handles GET /api/users/:id/login.
//
// @Summary      Check whether a user is logged in
// @Tags         sessions
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/users/{id}/login [get]
func (h *SessionHandler) IsLoggedIn(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.sessions.IsLoggedIn(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user is logged in"})
}

func observeTransition(t domain.SessionTransition, err error) {
	result := domain.OutcomeOK
	if err != nil {
		result = "500"
		var de *domain.Error
		if errors.As(err, &de) {
			result = strconv.Itoa(de.Status)
		}
	}
	metrics.SessionTransitionsTotal.WithLabelValues(string(t), result).Inc()
}
