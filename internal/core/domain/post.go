package domain

import "time"

// Category classifies a post.
type Category string

const (
	CategoryTechnology    Category = "TECHNOLOGY"
	CategoryScience       Category = "SCIENCE"
	CategorySports        Category = "SPORTS"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryPolitics      Category = "POLITICS"
	CategoryLifestyle     Category = "LIFESTYLE"
	CategoryOther         Category = "OTHER"
)

var validCategories = map[Category]struct{}{
	CategoryTechnology:    {},
	CategoryScience:       {},
	CategorySports:        {},
	CategoryEntertainment: {},
	CategoryPolitics:      {},
	CategoryLifestyle:     {},
	CategoryOther:         {},
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// Post is a blog entry. Categories behave as a set.
type Post struct {
	ID             uint64
	Title          string
	Content        string
	Author         string
	Categories     []Category
	CreatedAt      time.Time
	CreatedBy      string
	LastModifiedAt time.Time
	LastModifiedBy string
}

// Comment belongs to exactly one post; Content is stored HTML-escaped.
type Comment struct {
	ID             uint64
	Content        string
	AuthorID       *uint64
	PostID         uint64
	Post           *Post
	CreatedAt      time.Time
	CreatedBy      string
	LastModifiedAt time.Time
	LastModifiedBy string
}
