package models

import (
	"slices"
	"strings"
	"time"
)

// Post is a blog post as the client sees it. ID is assigned by the server
// and is zero until the first successful save.
type Post struct {
	ID            int64
	Title         string
	Content       string
	Excerpt       string
	Tags          []string
	FeaturedImage *string
	IsPublished   bool
	CreatedBy     string
	CreatedAt     time.Time

	// Informational fields carried by list responses.
	Status    int
	ViewCount int
}

// IsDraft reports whether the post is unpublished.
func (p Post) IsDraft() bool {
	return !p.IsPublished
}

// Clone returns a deep copy so editors can mutate without aliasing.
func (p Post) Clone() Post {
	cp := p
	cp.Tags = slices.Clone(p.Tags)
	if p.FeaturedImage != nil {
		img := *p.FeaturedImage
		cp.FeaturedImage = &img
	}
	return cp
}

// PartitionPosts splits posts by IsPublished. Every post lands in exactly
// one of the two slices; input order is preserved.
func PartitionPosts(posts []Post) (drafts, published []Post) {
	drafts = make([]Post, 0, len(posts))
	published = make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished {
			published = append(published, p)
		} else {
			drafts = append(drafts, p)
		}
	}
	return drafts, published
}

// WordCount counts whitespace-separated non-empty tokens of content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}
