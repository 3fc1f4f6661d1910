package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/ports"
)

// UserHandler serves the user directory under /api/users.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /api/users (signup, no authentication).
//
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(view))
}

// Get handles GET /api/users/:id.
//
// @Summary      Get user details by ID
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(view))
}

// Update handles PUT /api/users/:id. Only name, age and email can change.
//
// @Summary      Update an existing user by ID
// @Tags         users
// @Accept       json
// @Security     BasicAuth
// @Param        id    path  int                true  "User ID"
// @Param        body  body  updateUserRequest  true  "Fields to change"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.users.UpdateUserByID(c.Request().Context(), id, ports.UpdateUserInput{
		Name:  req.Name,
		Age:   req.Age,
		Email: req.Email,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /api/users.
//
// @Summary      Get all users
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}  userResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	views, err := h.users.GetAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(views))
	for i := range views {
		out = append(out, toUserResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Delete a user by ID
// @Tags         users
// @Security     BasicAuth
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUserByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckPassword handles POST /api/users/:email/checkPassword. The body is a
// bare JSON boolean: true with 200, false with 401.
//
// @Summary      Check a password against the stored digest
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        email  path      string           true  "User email"
// @Param        body   body      passwordRequest  true  "Candidate password"
// @Success      200    {boolean}  boolean
// @Failure      401    {boolean}  boolean
// @Failure      404    {object}   errorResponse
// @Router       /api/users/{email}/checkPassword [post]
func (h *UserHandler) CheckPassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	ok, err := h.users.CheckPassword(c.Request().Context(), c.Param("email"), req.Password)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, false)
	}
	return c.JSON(http.StatusOK, true)
}

// GetByUsername handles GET /api/users/username/:username.
//
// @Summary      Get user details by username
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/users/username/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	view, err := h.users.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(view))
}
