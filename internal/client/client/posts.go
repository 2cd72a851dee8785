package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
)

const (
	msgFetchPostsFailed = "Failed to fetch posts."
	msgFetchPostFailed  = "Failed to fetch post."
)

// wireTime accepts RFC 3339 timestamps, zone-less ones (read as UTC) and
// Unix epochs in seconds or milliseconds. Anything else, null and "" decode
// to the zero time: the field is only displayed, so it never fails a
// response.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// epochs above this are taken to be milliseconds (year 33658 in seconds)
const epochMillisThreshold = 1e12

func (t *wireTime) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}

	raw := bytes.TrimSpace(b)
	if len(raw) > 0 && raw[0] != '"' {
		if n, err := strconv.ParseFloat(string(raw), 64); err == nil {
			t.Time = epochTime(n)
		}
		return nil
	}

	s := string(bytes.Trim(raw, `"`))
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		t.Time = epochTime(n)
	}
	return nil
}

func epochTime(n float64) time.Time {
	if n >= epochMillisThreshold {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}

// wirePost is a post as the server sends it.
type wirePost struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Content          string   `json:"content"`
	Excerpt          string   `json:"excerpt"`
	Tags             []string `json:"tags"`
	IsPublished      bool     `json:"isPublished"`
	FeaturedImageURL *string  `json:"featuredImageUrl"`
	FeaturedImage    *string  `json:"featuredImage"`
	CreatedBy        string   `json:"createdBy"`
	CreatedAt        wireTime `json:"createdAt"`
	Status           int      `json:"status"`
	ViewCount        int      `json:"viewCount"`
}

func (w wirePost) toModel() models.Post {
	content := w.Description
	if content == "" {
		content = w.Content
	}
	image := w.FeaturedImageURL
	if image == nil || *image == "" {
		image = w.FeaturedImage
	}
	if image != nil && *image == "" {
		image = nil
	}

	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Post{
		ID:            w.ID,
		Title:         w.Title,
		Content:       content,
		Excerpt:       w.Excerpt,
		Tags:          tags,
		FeaturedImage: image,
		IsPublished:   w.IsPublished,
		CreatedBy:     w.CreatedBy,
		CreatedAt:     w.CreatedAt.Time,
		Status:        w.Status,
		ViewCount:     w.ViewCount,
	}
}

// postBody is the payload of create and update requests.
type postBody struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Excerpt       string   `json:"excerpt"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"isPublished"`
	FeaturedImage *string  `json:"featuredImage"`
}

func newPostBody(p models.Post) postBody {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return postBody{
		Title:         p.Title,
		Description:   p.Content,
		Excerpt:       p.Excerpt,
		Tags:          tags,
		IsPublished:   p.IsPublished,
		FeaturedImage: p.FeaturedImage,
	}
}

type listResponse struct {
	Success *bool      `json:"success"`
	Message string     `json:"message"`
	Posts   []wirePost `json:"posts"`
}

type postResponse struct {
	Success *bool     `json:"success"`
	Message string    `json:"message"`
	Post    *wirePost `json:"post"`
	ID      int64     `json:"id"`
}

// PostsAPI wraps the /Post endpoints. All calls are authenticated.
type PostsAPI struct {
	c *Client
}

func NewPostsAPI(c *Client) *PostsAPI {
	return &PostsAPI{c: c}
}

func postPath(id int64) string {
	return "/Post/" + strconv.FormatInt(id, 10)
}

// List returns the caller's posts. The response must carry success=true.
func (a *PostsAPI) List(ctx context.Context) ([]models.Post, error) {
	var resp listResponse
	if err := a.c.Do(ctx, http.MethodGet, "/Post", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Success == nil || !*resp.Success {
		return nil, serverError(http.StatusOK, firstNonEmpty(resp.Message, msgFetchPostsFailed))
	}

	posts := make([]models.Post, 0, len(resp.Posts))
	for _, w := range resp.Posts {
		posts = append(posts, w.toModel())
	}
	return posts, nil
}

func (a *PostsAPI) Get(ctx context.Context, id int64) (*models.Post, error) {
	var resp postResponse
	if err := a.c.Do(ctx, http.MethodGet, postPath(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, serverError(http.StatusOK, firstNonEmpty(resp.Message, msgFetchPostFailed))
	}

	p := resp.Post.toModel()
	if p.ID == 0 {
		p.ID = id
	}
	return &p, nil
}

// Create posts p and returns the id assigned by the server, 0 if the server
// did not report one.
func (a *PostsAPI) Create(ctx context.Context, p models.Post) (int64, error) {
	var resp postResponse
	if err := a.c.Do(ctx, http.MethodPost, "/Post", newPostBody(p), &resp); err != nil {
		return 0, err
	}
	return resp.id(0), nil
}

// Update replaces post p.ID and returns its id.
func (a *PostsAPI) Update(ctx context.Context, p models.Post) (int64, error) {
	if p.ID == 0 {
		return 0, fmt.Errorf("update post: missing id")
	}
	var resp postResponse
	if err := a.c.Do(ctx, http.MethodPut, postPath(p.ID), newPostBody(p), &resp); err != nil {
		return 0, err
	}
	return resp.id(p.ID), nil
}

func (a *PostsAPI) Delete(ctx context.Context, id int64) error {
	return a.c.Do(ctx, http.MethodDelete, postPath(id), nil, nil)
}

func (r postResponse) id(fallback int64) int64 {
	if r.Post != nil && r.Post.ID != 0 {
		return r.Post.ID
	}
	if r.ID != 0 {
		return r.ID
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
