package handler

import (
	"time"

	"github.com/postblog/platform/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"omitempty,min=3,max=100"`
	Email    string `json:"email"    validate:"required,blogemail"`
	Age      *int   `json:"age"      validate:"omitempty,gte=0"`
	Username string `json:"username" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest is a patch: absent fields keep their stored value.
type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=100"`
	Age   *int    `json:"age"   validate:"omitempty,gte=0"`
	Email *string `json:"email" validate:"omitempty,blogemail"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type userResponse struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            *int      `json:"age"`
	Username       string    `json:"username"`
	Registered     bool      `json:"registered"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LastModifiedBy string    `json:"last_modified_by"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Posts & comments ---

type postRequest struct {
	Title      string   `json:"title"      validate:"required,max=100"`
	Content    string   `json:"content"    validate:"required,max=1000"`
	Author     string   `json:"author"     validate:"required"`
	Categories []string `json:"categories" validate:"dive,category"`
}

type postResponse struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
}

type createCommentRequest struct {
	Content  string  `json:"content"   validate:"required,max=1000"`
	AuthorID *uint64 `json:"author_id"`
	PostID   uint64  `json:"post_id"   validate:"required"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type commentResponse struct {
	ID        uint64        `json:"id"`
	Content   string        `json:"content"`
	AuthorID  *uint64       `json:"author_id"`
	CreatedAt time.Time     `json:"created_at"`
	Post      *postResponse `json:"post,omitempty"`
}

// --- Mappers ---

func toUserResponse(v *ports.UserView) userResponse {
	roles := v.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:             v.ID,
		Name:           v.Name,
		Email:          v.Email,
		Age:            v.Age,
		Username:       v.Username,
		Registered:     v.Registered,
		Roles:          roles,
		CreatedAt:      v.CreatedAt,
		CreatedBy:      v.CreatedBy,
		LastModifiedAt: v.LastModifiedAt,
		LastModifiedBy: v.LastModifiedBy,
	}
}

func toPostResponse(v *ports.PostView) *postResponse {
	if v == nil {
		return nil
	}
	return &postResponse{
		ID:         v.ID,
		Title:      v.Title,
		Content:    v.Content,
		Author:     v.Author,
		Categories: v.Categories,
		CreatedAt:  v.CreatedAt,
		CreatedBy:  v.CreatedBy,
	}
}

func toCommentResponse(v *ports.CommentView) commentResponse {
	return commentResponse{
		ID:        v.ID,
		Content:   v.Content,
		AuthorID:  v.AuthorID,
		CreatedAt: v.CreatedAt,
		Post:      toPostResponse(v.Post),
	}
}
