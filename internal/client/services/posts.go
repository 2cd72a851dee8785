package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
)

// DefaultDeleteConcurrency bounds the requests DeleteMany keeps in flight.
const DefaultDeleteConcurrency = 8

// PostsClient is the remote post repository.
type PostsClient interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, p models.Post) (int64, error)
	Update(ctx context.Context, p models.Post) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// PostService is the post repository used by views. It keeps no cache; every
// call goes to the server.
type PostService struct {
	api               PostsClient
	logger            logging.Logger
	deleteConcurrency int
}

// NewPostService builds the service; deleteConcurrency <= 0 selects
// DefaultDeleteConcurrency.
func NewPostService(api PostsClient, logger logging.Logger, deleteConcurrency int) *PostService {
	if logger == nil {
		logger = logging.Nop()
	}
	if deleteConcurrency <= 0 {
		deleteConcurrency = DefaultDeleteConcurrency
	}
	return &PostService{api: api, logger: logger, deleteConcurrency: deleteConcurrency}
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.api.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	return s.api.Get(ctx, id)
}

// Save creates the post when it has no id and updates it otherwise. publish
// alone decides whether it is stored as a draft or published. The returned
// id is the one assigned by the server, or the existing id on update.
func (s *PostService) Save(ctx context.Context, post models.Post, publish bool) (int64, error) {
	p := post.Clone()
	p.IsPublished = publish

	if p.ID == 0 {
		id, err := s.api.Create(ctx, p)
		if err != nil {
			return 0, err
		}
		s.logger.Info(ctx, "post created", "id", id, "published", publish)
		return id, nil
	}

	id, err := s.api.Update(ctx, p)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "post updated", "id", id, "published", publish)
	return id, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "post deleted", "id", id)
	return nil
}

// BatchResult reports the outcome of DeleteMany per post.
type BatchResult struct {
	Succeeded []int64
	Failed    map[int64]error
}

// OK reports whether every delete succeeded.
func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// DeleteMany issues one delete per distinct id concurrently, waits for all of
// them and reports each outcome. A failing delete does not stop the others.
// Succeeded keeps the order of ids.
func (s *PostService) DeleteMany(ctx context.Context, ids []int64) BatchResult {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	errs := make([]error, len(unique))

	var g errgroup.Group
	g.SetLimit(s.deleteConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			errs[i] = s.api.Delete(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Succeeded: make([]int64, 0, len(unique)), Failed: map[int64]error{}}
	for i, id := range unique {
		if errs[i] != nil {
			res.Failed[id] = errs[i]
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}

	s.logger.Info(ctx, "batch delete finished", "requested", len(unique),
		"succeeded", len(res.Succeeded), "failed", len(res.Failed))
	return res
}

// PostsState is what a list view renders.
type PostsState struct {
	Posts     []models.Post
	IsLoading bool
	Error     string
}

type postLister interface {
	List(ctx context.Context) ([]models.Post, error)
}

// PostsQuery holds the last fetched post list of one view. Only the latest
// fetch may update it, and a fetch whose context was cancelled is discarded.
type PostsQuery struct {
	svc postLister

	mu      sync.RWMutex
	gen     uint64
	posts   []models.Post
	loading bool
	errMsg  string
}

func NewPostsQuery(svc postLister) *PostsQuery {
	return &PostsQuery{svc: svc}
}

// Fetch loads the list. The returned error is also recorded in State.
func (q *PostsQuery) Fetch(ctx context.Context) error {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	q.loading = true
	q.mu.Unlock()

	posts, err := q.svc.List(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()

	if gen != q.gen {
		return err
	}
	q.loading = false

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("fetch posts: %w", ctxErr)
	}

	if err != nil {
		q.errMsg = err.Error()
		return err
	}

	q.posts = posts
	q.errMsg = ""
	return nil
}

// Refetch reloads the list, typically after a mutation.
func (q *PostsQuery) Refetch(ctx context.Context) error {
	return q.Fetch(ctx)
}

func (q *PostsQuery) State() PostsState {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return PostsState{
		Posts:     clonePosts(q.posts),
		IsLoading: q.loading,
		Error:     q.errMsg,
	}
}

func (q *PostsQuery) Drafts() []models.Post {
	q.mu.RLock()
	defer q.mu.RUnlock()
	drafts, _ := models.PartitionPosts(q.posts)
	return drafts
}

func (q *PostsQuery) Published() []models.Post {
	q.mu.RLock()
	defer q.mu.RUnlock()
	_, published := models.PartitionPosts(q.posts)
	return published
}

func clonePosts(posts []models.Post) []models.Post {
	if posts == nil {
		return nil
	}
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
