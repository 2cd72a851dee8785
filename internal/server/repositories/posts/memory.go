package posts

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogdesk/internal/common"
	"github.com/dmitrijs2005/blogdesk/internal/server/models"
)

// MemoryRepository keeps posts in process memory. Stored values are copied
// in and out so callers never share slices with the store.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	posts  map[int64]models.Post
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: map[int64]models.Post{}, now: func() time.Time { return time.Now().UTC() }}
}

func clonePost(p models.Post) *models.Post {
	p.Tags = slices.Clone(p.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.FeaturedImageURL != nil {
		v := *p.FeaturedImageURL
		p.FeaturedImageURL = &v
	}
	return &p
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Post{}
	for _, p := range r.posts {
		if p.CreatedBy == userID {
			result = append(result, clonePost(p))
		}
	}
	slices.SortFunc(result, func(a, b *models.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePost(p), nil
}

func (r *MemoryRepository) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = r.now()
	post.UpdatedAt = post.CreatedAt
	post.ViewCount = 0
	r.posts[post.ID] = *clonePost(*post)
	return post, nil
}

func (r *MemoryRepository) Update(_ context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.posts[post.ID]
	if !ok || old.CreatedBy != post.CreatedBy {
		return nil, common.ErrorNotFound
	}
	post.CreatedAt = old.CreatedAt
	post.ViewCount = old.ViewCount
	post.UpdatedAt = r.now()
	r.posts[post.ID] = *clonePost(*post)
	return post, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok || p.CreatedBy != userID {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}
