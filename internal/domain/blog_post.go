package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPostTitleEmpty   = errors.New("post title is required")
	ErrPostTitleTooLong = errors.New("post title must be 255 characters or less")
	ErrPostContentEmpty = errors.New("post content is required")
)

// BlogPost is one article on the public blog, managed from the admin console
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Content       string    `json:"content"`
	Author        string    `json:"author,omitempty"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	ImageURLs     []string  `json:"imageUrls,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EntityID implements Entity
func (p BlogPost) EntityID() string {
	return p.ID
}

// EditableFields implements Entity
func (p BlogPost) EditableFields() Payload {
	return Payload{
		"title":         p.Title,
		"slug":          p.Slug,
		"excerpt":       p.Excerpt,
		"content":       p.Content,
		"author":        p.Author,
		"coverImageUrl": p.CoverImageURL,
		"imageUrls":     copyStrings(p.ImageURLs),
	}
}

func (p *BlogPost) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return ErrPostTitleEmpty
	}
	if len(title) > 255 {
		return ErrPostTitleTooLong
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrPostContentEmpty
	}
	return nil
}
