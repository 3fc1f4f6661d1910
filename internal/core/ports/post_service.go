package ports

import (
	"context"
	"time"
)

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title      string
	Content    string
	Author     string
	Categories []string
}

// PostView is the public projection of a post.
type PostView struct {
	ID         uint64
	Title      string
	Content    string
	Author     string
	Categories []string
	CreatedAt  time.Time
	CreatedBy  string
}

// CommentInput carries the writable fields of a comment.
type CommentInput struct {
	Content  string
	AuthorID *uint64
	PostID   uint64
}

// CommentView is the public projection of a comment with its post.
type CommentView struct {
	ID        uint64
	Content   string
	AuthorID  *uint64
	CreatedAt time.Time
	Post      *PostView
}

type PostService interface {
	CreatePost(ctx context.Context, in PostInput) (*PostView, error)
	GetPostByID(ctx context.Context, id uint64) (*PostView, error)
	UpdatePostByID(ctx context.Context, id uint64, in PostInput) (*PostView, error)
	GetAllPosts(ctx context.Context) ([]PostView, error)
	DeletePostByID(ctx context.Context, id uint64) error
}

type CommentService interface {
	CreateComment(ctx context.Context, in CommentInput) (*CommentView, error)
	GetCommentByID(ctx context.Context, id uint64) (*CommentView, error)
	UpdateCommentByID(ctx context.Context, id uint64, content string) (*CommentView, error)
	GetAllComments(ctx context.Context) ([]CommentView, error)
	DeleteCommentByID(ctx context.Context, id uint64) error
}
