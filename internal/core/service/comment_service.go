package service

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	logger   zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, logger zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger}
}

// CreateComment attaches a new comment to an existing post. Content is
// HTML-escaped before it is stored.
func (s *CommentService) CreateComment(ctx context.Context, in ports.CommentInput) (*ports.CommentView, error) {
	post, err := s.posts.FindByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Content:  sanitize(in.Content),
		AuthorID: in.AuthorID,
		PostID:   post.ID,
		Post:     post,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Uint64("post_id", in.PostID).Msg("failed to create comment")
		return nil, fmt.Errorf("%w: %w", domain.ErrCreateComment, err)
	}

	s.logger.Info().Uint64("comment_id", comment.ID).Uint64("post_id", post.ID).Msg("comment created")
	return toCommentView(comment), nil
}

func (s *CommentService) GetCommentByID(ctx context.Context, id uint64) (*ports.CommentView, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCommentView(comment), nil
}

func (s *CommentService) UpdateCommentByID(ctx context.Context, id uint64, content string) (*ports.CommentView, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Content = sanitize(content)
	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Uint64("comment_id", id).Msg("failed to update comment")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpdateComment, err)
	}
	return toCommentView(comment), nil
}

func (s *CommentService) GetAllComments(ctx context.Context) ([]ports.CommentView, error) {
	comments, err := s.comments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGetComments, err)
	}
	out := make([]ports.CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, *toCommentView(c))
	}
	return out, nil
}

func (s *CommentService) DeleteCommentByID(ctx context.Context, id uint64) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrDeleteComment, err)
	}
	return nil
}

func sanitize(content string) string {
	return html.EscapeString(content)
}

func toCommentView(c *domain.Comment) *ports.CommentView {
	v := &ports.CommentView{
		ID:        c.ID,
		Content:   c.Content,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
	}
	if c.Post != nil {
		v.Post = toPostView(c.Post)
	}
	return v
}
