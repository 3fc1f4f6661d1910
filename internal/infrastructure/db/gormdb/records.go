package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/postblog/platform/internal/core/domain"
)

type auditColumns struct {
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	CreatedBy      string    `gorm:"size:255"`
	LastModifiedAt time.Time `gorm:"autoUpdateTime"`
	LastModifiedBy string    `gorm:"size:255"`
}

func (a *auditColumns) stamp(ctx context.Context) {
	auditor := domain.AuditorFromContext(ctx)
	if a.CreatedBy == "" {
		a.CreatedBy = auditor
	}
	a.LastModifiedBy = auditor
}

type roleRecord struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"size:32;uniqueIndex;not null"`
}

func (roleRecord) TableName() string { return "roles" }

type userRecord struct {
	ID         uint64 `gorm:"primaryKey"`
	Name       string `gorm:"size:255"`
	Email      string `gorm:"size:255;uniqueIndex;not null"`
	Age        *int
	Username   string       `gorm:"size:255;uniqueIndex;not null"`
	Password   string       `gorm:"size:255;not null"`
	Registered bool         `gorm:"not null;default:false"`
	Roles      []roleRecord `gorm:"many2many:user_roles"`
	Audit      auditColumns `gorm:"embedded"`
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) BeforeCreate(tx *gorm.DB) error {
	r.Audit.stamp(tx.Statement.Context)
	return nil
}

type postRecord struct {
	ID         uint64               `gorm:"primaryKey"`
	Title      string               `gorm:"size:255;not null"`
	Content    string               `gorm:"type:text;not null"`
	Author     string               `gorm:"size:255;not null"`
	Categories []postCategoryRecord `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Audit      auditColumns         `gorm:"embedded"`
}

func (postRecord) TableName() string { return "posts" }

func (r *postRecord) BeforeCreate(tx *gorm.DB) error {
	r.Audit.stamp(tx.Statement.Context)
	return nil
}

// postCategoryRecord is one member of a post's category set. Position keeps
// the order the categories were submitted in.
type postCategoryRecord struct {
	PostID   uint64 `gorm:"primaryKey"`
	Category string `gorm:"primaryKey;size:32"`
	Position int    `gorm:"not null"`
}

func (postCategoryRecord) TableName() string { return "post_categories" }

type commentRecord struct {
	ID       uint64 `gorm:"primaryKey"`
	Content  string `gorm:"type:text;not null"`
	AuthorID *uint64
	PostID   uint64       `gorm:"not null;index"`
	Post     *postRecord  `gorm:"constraint:OnDelete:CASCADE"`
	Audit    auditColumns `gorm:"embedded"`
}

func (commentRecord) TableName() string { return "comments" }

func (r *commentRecord) BeforeCreate(tx *gorm.DB) error {
	r.Audit.stamp(tx.Statement.Context)
	return nil
}

func toDomainUser(r *userRecord) *domain.User {
	u := &domain.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Age:            r.Age,
		Username:       r.Username,
		Password:       r.Password,
		Registered:     r.Registered,
		CreatedAt:      r.Audit.CreatedAt,
		CreatedBy:      r.Audit.CreatedBy,
		LastModifiedAt: r.Audit.LastModifiedAt,
		LastModifiedBy: r.Audit.LastModifiedBy,
	}
	for _, role := range r.Roles {
		u.Roles = append(u.Roles, domain.Role{ID: role.ID, Name: role.Name})
	}
	return u
}

func toPostRecord(p *domain.Post) *postRecord {
	return &postRecord{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Author:     p.Author,
		Categories: toCategoryRecords(p.ID, p.Categories),
	}
}

func toCategoryRecords(postID uint64, categories []domain.Category) []postCategoryRecord {
	out := make([]postCategoryRecord, 0, len(categories))
	for i, c := range categories {
		out = append(out, postCategoryRecord{PostID: postID, Category: string(c), Position: i})
	}
	return out
}

func toDomainPost(r *postRecord) *domain.Post {
	p := &domain.Post{
		ID:             r.ID,
		Title:          r.Title,
		Content:        r.Content,
		Author:         r.Author,
		Categories:     make([]domain.Category, 0, len(r.Categories)),
		CreatedAt:      r.Audit.CreatedAt,
		CreatedBy:      r.Audit.CreatedBy,
		LastModifiedAt: r.Audit.LastModifiedAt,
		LastModifiedBy: r.Audit.LastModifiedBy,
	}
	for _, c := range r.Categories {
		p.Categories = append(p.Categories, domain.Category(c.Category))
	}
	return p
}

func toDomainComment(r *commentRecord) *domain.Comment {
	c := &domain.Comment{
		ID:             r.ID,
		Content:        r.Content,
		AuthorID:       r.AuthorID,
		PostID:         r.PostID,
		CreatedAt:      r.Audit.CreatedAt,
		CreatedBy:      r.Audit.CreatedBy,
		LastModifiedAt: r.Audit.LastModifiedAt,
		LastModifiedBy: r.Audit.LastModifiedBy,
	}
	if r.Post != nil {
		c.Post = toDomainPost(r.Post)
	}
	return c
}
