package ports

import (
	"context"

	"github.com/postblog/platform/internal/core/domain"
)

// PostRepository persists posts. Lookups return domain.ErrPostNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uint64) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	// Update replaces scalar fields and the category set in one transaction.
	Update(ctx context.Context, post *domain.Post) error
	// Delete removes the post and its comments in one transaction.
	Delete(ctx context.Context, id uint64) error
}

// CommentRepository persists comments. Lookups return domain.ErrCommentNotFound.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// FindByID loads the comment together with its post.
	FindByID(ctx context.Context, id uint64) (*domain.Comment, error)
	List(ctx context.Context) ([]*domain.Comment, error)
	UpdateContent(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uint64) error
}
