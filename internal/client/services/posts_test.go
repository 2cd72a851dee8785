package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
)

// memPosts is an in-memory PostsClient.
type memPosts struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]models.Post

	deleteCalls atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	deleteDelay time.Duration
	failDelete  map[int64]error
	listErr     error
}

func newMemPosts(posts ...models.Post) *memPosts {
	m := &memPosts{posts: map[int64]models.Post{}, failDelete: map[int64]error{}}
	for _, p := range posts {
		m.posts[p.ID] = p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *memPosts) List(context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPosts) Get(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d not found", id)
	}
	cp := p.Clone()
	return &cp, nil
}

func (m *memPosts) Create(_ context.Context, p models.Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.posts[p.ID] = p.Clone()
	return p.ID, nil
}

func (m *memPosts) Update(_ context.Context, p models.Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return 0, fmt.Errorf("post %d not found", p.ID)
	}
	m.posts[p.ID] = p.Clone()
	return p.ID, nil
}

func (m *memPosts) Delete(_ context.Context, id int64) error {
	m.deleteCalls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(m.deleteDelay)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failDelete[id]; err != nil {
		return err
	}
	delete(m.posts, id)
	return nil
}

func TestSave_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	api := newMemPosts()
	svc := NewPostService(api, nil, 0)

	id, err := svc.Save(ctx, models.Post{Title: "Hello", Content: "first draft"}, false)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.True(t, got.IsDraft())

	got.Content = "final"
	id2, err := svc.Save(ctx, *got, true)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	got, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)
	assert.True(t, got.IsPublished)
}

func TestSave_PublishFlagAloneDecides(t *testing.T) {
	ctx := context.Background()
	api := newMemPosts(models.Post{ID: 1, Title: "T", IsPublished: true})
	svc := NewPostService(api, nil, 0)

	_, err := svc.Save(ctx, models.Post{ID: 1, Title: "T", IsPublished: true}, false)
	require.NoError(t, err)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
}

func TestDeleteMany_AllSucceed(t *testing.T) {
	ctx := context.Background()
	api := newMemPosts(
		models.Post{ID: 1}, models.Post{ID: 2}, models.Post{ID: 3}, models.Post{ID: 4},
	)
	svc := NewPostService(api, nil, 0)

	res := svc.DeleteMany(ctx, []int64{3, 1, 4})
	assert.True(t, res.OK())
	assert.Equal(t, []int64{3, 1, 4}, res.Succeeded)
	assert.Equal(t, int32(3), api.deleteCalls.Load())

	q := NewPostsQuery(svc)
	require.NoError(t, q.Refetch(ctx))
	posts := q.State().Posts
	require.Len(t, posts, 1)
	assert.Equal(t, int64(2), posts[0].ID)
}

func TestDeleteMany_ReportsEachFailure(t *testing.T) {
	api := newMemPosts(models.Post{ID: 1}, models.Post{ID: 2}, models.Post{ID: 3})
	boom := errors.New("forbidden")
	api.failDelete[2] = boom
	svc := NewPostService(api, nil, 0)

	res := svc.DeleteMany(context.Background(), []int64{1, 2, 3, 2})
	assert.False(t, res.OK())
	assert.Equal(t, []int64{1, 3}, res.Succeeded)
	assert.Equal(t, map[int64]error{2: boom}, res.Failed)
	assert.Equal(t, int32(3), api.deleteCalls.Load())
}

func TestDeleteMany_BoundedConcurrency(t *testing.T) {
	var posts []models.Post
	var ids []int64
	for i := int64(1); i <= 12; i++ {
		posts = append(posts, models.Post{ID: i})
		ids = append(ids, i)
	}
	api := newMemPosts(posts...)
	api.deleteDelay = 20 * time.Millisecond
	svc := NewPostService(api, nil, 3)

	res := svc.DeleteMany(context.Background(), ids)
	assert.True(t, res.OK())
	assert.LessOrEqual(t, api.maxInFlight.Load(), int32(3))
	assert.Equal(t, int32(12), api.deleteCalls.Load())
}

func TestDeleteMany_Empty(t *testing.T) {
	res := NewPostService(newMemPosts(), nil, 0).DeleteMany(context.Background(), nil)
	assert.True(t, res.OK())
	assert.Empty(t, res.Succeeded)
}

func TestPostsQuery_FetchAndPartition(t *testing.T) {
	api := newMemPosts(
		models.Post{ID: 1, IsPublished: true},
		models.Post{ID: 2},
		models.Post{ID: 3},
	)
	q := NewPostsQuery(NewPostService(api, nil, 0))

	assert.Empty(t, q.State().Posts)
	require.NoError(t, q.Fetch(context.Background()))

	st := q.State()
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.Len(t, st.Posts, 3)
	assert.Len(t, q.Drafts(), 2)
	assert.Len(t, q.Published(), 1)
}

func TestPostsQuery_ErrorRecorded(t *testing.T) {
	api := newMemPosts(models.Post{ID: 1})
	q := NewPostsQuery(NewPostService(api, nil, 0))
	require.NoError(t, q.Fetch(context.Background()))

	api.listErr = errors.New("User is not authenticated.")
	require.Error(t, q.Fetch(context.Background()))

	st := q.State()
	assert.Equal(t, "User is not authenticated.", st.Error)
	assert.Len(t, st.Posts, 1)
}

type blockingLister struct {
	release chan struct{}
	posts   []models.Post
}

func (b *blockingLister) List(context.Context) ([]models.Post, error) {
	<-b.release
	return b.posts, nil
}

func TestPostsQuery_DiscardsResultAfterCancel(t *testing.T) {
	lister := &blockingLister{release: make(chan struct{}), posts: []models.Post{{ID: 1}}}
	q := NewPostsQuery(lister)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Fetch(ctx) }()

	require.Eventually(t, func() bool { return q.State().IsLoading }, time.Second, time.Millisecond)
	cancel()
	close(lister.release)

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	st := q.State()
	assert.Empty(t, st.Posts)
	assert.False(t, st.IsLoading)
}

func TestPostsQuery_StateIsACopy(t *testing.T) {
	api := newMemPosts(models.Post{ID: 1, Tags: []string{"go"}})
	q := NewPostsQuery(NewPostService(api, nil, 0))
	require.NoError(t, q.Fetch(context.Background()))

	st := q.State()
	st.Posts[0].Tags[0] = "changed"
	assert.Equal(t, "go", q.State().Posts[0].Tags[0])
}
