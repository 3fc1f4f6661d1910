package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/ports"
)

// CommentHandler serves /api/comments.
type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create handles POST /api/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req createCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.comments.CreateComment(c.Request().Context(), ports.CommentInput{
		Content:  req.Content,
		AuthorID: req.AuthorID,
		PostID:   req.PostID,
	})
	if err != nil {
		return err
	}
	metrics.ContentCreatedTotal.WithLabelValues("comment").Inc()
	return c.JSON(http.StatusCreated, toCommentResponse(view))
}

// Get handles GET /api/comments/:id.
//
// @Summary      Get comment details by ID
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.comments.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(view))
}

// Update handles PUT /api/comments/:id.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Param        id    path  int                   true  "Comment ID"
// @Param        body  body  updateCommentRequest  true  "New content"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.comments.UpdateCommentByID(c.Request().Context(), id, req.Content); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /api/comments.
//
// @Summary      Get all comments
// @Tags         comments
// @Produce      json
// @Success      200  {array}  commentResponse
// @Router       /api/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	views, err := h.comments.GetAllComments(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]commentResponse, 0, len(views))
	for i := range views {
		out = append(out, toCommentResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /api/comments/:id.
//
// @Summary      Delete a comment by ID
// @Tags         comments
// @Param        id  path  int  true  "Comment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.DeleteCommentByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
