package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

type PostService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

func (s *PostService) CreatePost(ctx context.Context, in ports.PostInput) (*ports.PostView, error) {
	post := &domain.Post{
		Title:      in.Title,
		Content:    in.Content,
		Author:     in.Author,
		Categories: toCategorySet(in.Categories),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, fmt.Errorf("%w: %w", domain.ErrCreatePost, err)
	}

	s.logger.Info().Uint64("post_id", post.ID).Str("author", post.Author).Msg("post created")
	return toPostView(post), nil
}

func (s *PostService) GetPostByID(ctx context.Context, id uint64) (*ports.PostView, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPostView(post), nil
}

// UpdatePostByID replaces title, content, author and the category set. The
// repository applies the change inside a single transaction.
func (s *PostService) UpdatePostByID(ctx context.Context, id uint64, in ports.PostInput) (*ports.PostView, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.Author = in.Author
	post.Categories = toCategorySet(in.Categories)

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Uint64("post_id", id).Msg("failed to update post")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpdatePost, err)
	}
	return toPostView(post), nil
}

func (s *PostService) GetAllPosts(ctx context.Context) ([]ports.PostView, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGetPosts, err)
	}
	out := make([]ports.PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, *toPostView(p))
	}
	return out, nil
}

func (s *PostService) DeletePostByID(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrDeletePost, err)
	}
	s.logger.Info().Uint64("post_id", id).Msg("post deleted")
	return nil
}

// toCategorySet drops duplicates while keeping first-seen order.
func toCategorySet(names []string) []domain.Category {
	seen := make(map[domain.Category]struct{}, len(names))
	out := make([]domain.Category, 0, len(names))
	for _, n := range names {
		c := domain.Category(n)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func toPostView(p *domain.Post) *ports.PostView {
	categories := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = string(c)
	}
	return &ports.PostView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Author:     p.Author,
		Categories: categories,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
}
