package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/blogdesk/internal/client/images"
	"github.com/dmitrijs2005/blogdesk/internal/client/models"
)

// PostSaver is the part of PostService the editor needs.
type PostSaver interface {
	Get(ctx context.Context, id int64) (*models.Post, error)
	Save(ctx context.Context, post models.Post, publish bool) (int64, error)
}

// Editor holds one in-progress post. It is owned by a single view and is not
// safe for concurrent use. Failures are kept as display strings in Error.
type Editor struct {
	posts  PostSaver
	images images.Store

	post    models.Post
	words   int
	loading bool
	errMsg  string
	dirty   bool
}

// NewEditor starts an empty draft. A nil image store inlines images as data
// URLs.
func NewEditor(posts PostSaver, store images.Store) *Editor {
	if store == nil {
		store = images.DataURLStore{}
	}
	return &Editor{posts: posts, images: store, post: models.Post{Tags: []string{}}}
}

// Load replaces the editor contents with post id from the server.
func (e *Editor) Load(ctx context.Context, id int64) error {
	e.loading = true
	defer func() { e.loading = false }()

	p, err := e.posts.Get(ctx, id)
	if err != nil {
		e.errMsg = err.Error()
		return err
	}

	e.post = p.Clone()
	if e.post.Tags == nil {
		e.post.Tags = []string{}
	}
	e.words = models.WordCount(e.post.Content)
	e.errMsg = ""
	e.dirty = false
	return nil
}

// Post returns a copy of the post being edited.
func (e *Editor) Post() models.Post {
	return e.post.Clone()
}

func (e *Editor) SetTitle(title string) {
	e.post.Title = title
	e.dirty = true
}

func (e *Editor) SetContent(content string) {
	e.post.Content = content
	e.words = models.WordCount(content)
	e.dirty = true
}

func (e *Editor) WordCount() int {
	return e.words
}

func (e *Editor) SetExcerpt(excerpt string) {
	e.post.Excerpt = excerpt
	e.dirty = true
}

// AddTag appends the trimmed tag. Empty and duplicate tags are ignored.
func (e *Editor) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(e.post.Tags, tag) {
		return false
	}
	e.post.Tags = append(e.post.Tags, tag)
	e.dirty = true
	return true
}

// RemoveTag drops every occurrence of tag.
func (e *Editor) RemoveTag(tag string) bool {
	n := len(e.post.Tags)
	e.post.Tags = slices.DeleteFunc(e.post.Tags, func(t string) bool { return t == tag })
	if len(e.post.Tags) == n {
		return false
	}
	e.dirty = true
	return true
}

func (e *Editor) Tags() []string {
	return slices.Clone(e.post.Tags)
}

// SetFeaturedImage stores the image through the configured store and keeps
// the resulting URL.
func (e *Editor) SetFeaturedImage(ctx context.Context, name string, data []byte) error {
	url, err := e.images.Put(ctx, name, data)
	if err != nil {
		e.errMsg = err.Error()
		return err
	}
	e.post.FeaturedImage = &url
	e.errMsg = ""
	e.dirty = true
	return nil
}

func (e *Editor) RemoveFeaturedImage() {
	if e.post.FeaturedImage == nil {
		return
	}
	e.post.FeaturedImage = nil
	e.dirty = true
}

// SaveDraft stores the post unpublished.
func (e *Editor) SaveDraft(ctx context.Context) (int64, error) {
	return e.save(ctx, false)
}

// Publish stores the post published.
func (e *Editor) Publish(ctx context.Context) (int64, error) {
	return e.save(ctx, true)
}

func (e *Editor) save(ctx context.Context, publish bool) (int64, error) {
	if strings.TrimSpace(e.post.Title) == "" {
		e.errMsg = ErrTitleRequired.Error()
		return 0, ErrTitleRequired
	}

	e.loading = true
	defer func() { e.loading = false }()

	id, err := e.posts.Save(ctx, e.post, publish)
	if err != nil {
		e.errMsg = err.Error()
		return 0, err
	}

	if id != 0 {
		e.post.ID = id
	}
	e.post.IsPublished = publish
	e.errMsg = ""
	e.dirty = false
	return e.post.ID, nil
}

func (e *Editor) IsLoading() bool {
	return e.loading
}

// Error is the last failure as a display string, "" after a success.
func (e *Editor) Error() string {
	return e.errMsg
}

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}
