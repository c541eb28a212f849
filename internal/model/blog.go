package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogStatus represents the publication state of a blog.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// Valid reports whether s is a known status.
func (s BlogStatus) Valid() bool {
	switch s {
	case BlogStatusDraft, BlogStatusPublished, BlogStatusArchived:
		return true
	}
	return false
}

const (
	// DefaultCategory is used when a blog is created without one.
	DefaultCategory = "General"
	// excerptLength is the number of content runes copied into an empty excerpt.
	excerptLength = 150
)

// Blog is a post owned by its author.
type Blog struct {
	ID            uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	Content       string     `json:"content" gorm:"not null"`
	Excerpt       string     `json:"excerpt" gorm:"size:300"`
	AuthorID      uuid.UUID  `json:"-" gorm:"type:char(36);not null;index"`
	Tags          []string   `json:"tags" gorm:"type:text;serializer:json"`
	Category      string     `json:"category" gorm:"size:100;not null;default:'General';index"`
	Status        BlogStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	FeaturedImage string     `json:"featuredImage,omitempty" gorm:"size:500"`
	Views         int64      `json:"views" gorm:"not null;default:0"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty" gorm:"index"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Lowercased copies matched by the listing filters. Folding happens here
	// rather than in SQL because SQLite's LOWER only folds ASCII.
	SearchCategory string `json:"-" gorm:"size:100;index"`
	SearchTags     string `json:"-" gorm:"type:text"`
	SearchText     string `json:"-"`

	// Relations
	Author   *User         `json:"-" gorm:"foreignKey:AuthorID"`
	Likes    []BlogLike    `json:"-" gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
	Comments []BlogComment `json:"-" gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeSave fills derived fields: default category, the excerpt and the
// first publication time.
func (b *Blog) BeforeSave(tx *gorm.DB) error {
	if b.Category == "" {
		b.Category = DefaultCategory
	}
	if b.Status == "" {
		b.Status = BlogStatusDraft
	}
	if strings.TrimSpace(b.Excerpt) == "" {
		b.Excerpt = MakeExcerpt(b.Content)
	}
	if b.Status == BlogStatusPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b.fillSearchFields()
}

func (b *Blog) fillSearchFields() error {
	folded := make([]string, len(b.Tags))
	for i, tag := range b.Tags {
		folded[i] = strings.ToLower(tag)
	}
	encoded, err := json.Marshal(folded)
	if err != nil {
		return err
	}
	b.SearchCategory = strings.ToLower(b.Category)
	b.SearchTags = string(encoded)
	b.SearchText = strings.ToLower(strings.Join([]string{b.Title, b.Content, b.Excerpt, strings.Join(b.Tags, " ")}, "\n"))
	return nil
}

// MakeExcerpt returns the leading part of content, with an ellipsis when cut.
func MakeExcerpt(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= excerptLength {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "..."
}

// NormalizeTags trims, drops empty entries and deduplicates while keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// BlogLike records that a user likes a blog. The composite primary key keeps
// a user to at most one like per blog.
type BlogLike struct {
	BlogID    uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlogComment is a comment on a blog, ordered by creation time.
type BlogComment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	BlogID    uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Content   string    `json:"content" gorm:"size:1000;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *BlogComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
