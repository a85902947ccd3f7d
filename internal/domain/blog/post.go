package blog

import (
	"strings"
	"time"

	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Post represents a blog article published on the site
type Post struct {
	shared.BaseEntity
	Title    string    `gorm:"type:varchar(200);not null"`
	Content  string    `gorm:"type:text;not null"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageKey string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// NewPost creates a new blog post
func NewPost(authorID uuid.UUID, title, content string) (*Post, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Post content cannot be empty")
	}

	return &Post{
		BaseEntity: shared.NewBaseEntity(),
		Title:      strings.TrimSpace(title),
		Content:    content,
		AuthorID:   authorID,
	}, nil
}

// Update updates the post title and content
func (p *Post) Update(title, content string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Post content cannot be empty")
	}

	p.Title = strings.TrimSpace(title)
	p.Content = content
	p.UpdatedAt = time.Now()

	return nil
}

// SetImageKey sets the storage key of the post cover image
func (p *Post) SetImageKey(key string) {
	p.ImageKey = key
	p.UpdatedAt = time.Now()
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot exceed 200 characters")
	}
	return nil
}
