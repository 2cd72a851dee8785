package models

import "time"

// Post status values reported to clients next to IsPublished.
const (
	StatusDraft     = 0
	StatusPublished = 1
)

type Post struct {
	ID               int64
	Title            string
	Description      string
	Excerpt          string
	Tags             []string
	FeaturedImageURL *string
	IsPublished      bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ViewCount        int
}

// Status derives the numeric status from IsPublished.
func (p Post) Status() int {
	if p.IsPublished {
		return StatusPublished
	}
	return StatusDraft
}
