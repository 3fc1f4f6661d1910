package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/ports"
)

// PostHandler serves /api/posts.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (r postRequest) toInput() ports.PostInput {
	return ports.PostInput{
		Title:      r.Title,
		Content:    r.Content,
		Author:     r.Author,
		Categories: r.Categories,
	}
}

// Create handles POST /api/posts.
//
// @Summary      Create a new post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.posts.CreatePost(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.ContentCreatedTotal.WithLabelValues("post").Inc()
	return c.JSON(http.StatusCreated, toPostResponse(view))
}

// Get handles GET /api/posts/:id.
//
// @Summary      Get post details by ID
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.posts.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(view))
}

// Update handles PUT /api/posts/:id.
//
// @Summary      Replace a post
// @Tags         posts
// @Accept       json
// @Param        id    path  int          true  "Post ID"
// @Param        body  body  postRequest  true  "Post"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.posts.UpdatePostByID(c.Request().Context(), id, req.toInput()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /api/posts.
//
// @Summary      Get all posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}  postResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	views, err := h.posts.GetAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]*postResponse, 0, len(views))
	for i := range views {
		out = append(out, toPostResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /api/posts/:id. Comments on the post go with it.
//
// @Summary      Delete a post by ID
// @Tags         posts
// @Param        id  path  int  true  "Post ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.DeletePostByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
