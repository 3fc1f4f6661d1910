package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// PostRepository implements ports.PostRepository on gorm.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) ports.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	rec := toPostRecord(post)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	post.ID = rec.ID
	post.CreatedAt = rec.Audit.CreatedAt
	post.CreatedBy = rec.Audit.CreatedBy
	post.LastModifiedAt = rec.Audit.LastModifiedAt
	post.LastModifiedBy = rec.Audit.LastModifiedBy
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*domain.Post, error) {
	var rec postRecord
	err := r.db.WithContext(ctx).Preload("Categories", byPosition).First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return toDomainPost(&rec), nil
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	var recs []postRecord
	if err := r.db.WithContext(ctx).Preload("Categories", byPosition).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Post, 0, len(recs))
	for i := range recs {
		out = append(out, toDomainPost(&recs[i]))
	}
	return out, nil
}

// Update rewrites the scalar columns and swaps the category set atomically.
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&postRecord{}).Where("id = ?", post.ID).Updates(touched(ctx, map[string]any{
			"title":   post.Title,
			"content": post.Content,
			"author":  post.Author,
		}))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrPostNotFound
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&postCategoryRecord{}).Error; err != nil {
			return err
		}
		if categories := toCategoryRecords(post.ID, post.Categories); len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the post with its categories and comments.
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&commentRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&postCategoryRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&postRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrPostNotFound
		}
		return nil
	})
}

// CommentRepository implements ports.CommentRepository on gorm.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) ports.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	rec := commentRecord{
		Content:  comment.Content,
		AuthorID: comment.AuthorID,
		PostID:   comment.PostID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return err
	}
	comment.ID = rec.ID
	comment.CreatedAt = rec.Audit.CreatedAt
	comment.CreatedBy = rec.Audit.CreatedBy
	comment.LastModifiedAt = rec.Audit.LastModifiedAt
	comment.LastModifiedBy = rec.Audit.LastModifiedBy
	return nil
}

func (r *CommentRepository) withPost(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Post").Preload("Post.Categories", byPosition)
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	var rec commentRecord
	if err := r.withPost(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return toDomainComment(&rec), nil
}

func (r *CommentRepository) List(ctx context.Context) ([]*domain.Comment, error) {
	var recs []commentRecord
	if err := r.withPost(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Comment, 0, len(recs))
	for i := range recs {
		out = append(out, toDomainComment(&recs[i]))
	}
	return out, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, comment *domain.Comment) error {
	res := r.db.WithContext(ctx).Model(&commentRecord{}).Where("id = ?", comment.ID).
		Updates(touched(ctx, map[string]any{"content": comment.Content}))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&commentRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}
