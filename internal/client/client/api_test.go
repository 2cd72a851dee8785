package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
)

func TestAuthAPI_Login(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Auth/login", r.URL.Path)
		var req models.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.LoginRequest{Email: "a@b.io", Password: "secret1"}, req)
		_, _ = w.Write([]byte(`{"userId":"7","token":"tok","userName":"ab"}`))
	}, "")

	resp, err := NewAuthAPI(c).Login(context.Background(), models.LoginRequest{Email: "a@b.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "7", resp.UserID)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "ab", resp.UserName)
}

func TestAuthAPI_LoginWithoutTokenIsInvalid(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"userId":"7"}`))
	}, "")

	_, err := NewAuthAPI(c).Login(context.Background(), models.LoginRequest{})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, apiErr.Kind)
}

func TestAuthAPI_Verify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *models.User
	}{
		{"nested user", `{"user":{"id":"1","email":"e@x.io"}}`, &models.User{ID: "1", Email: "e@x.io"}},
		{"flat", `{"userId":"2","email":"f@x.io","userName":"f"}`, &models.User{ID: "2", Email: "f@x.io", UserName: "f", Role: models.RoleUser}},
		{"bare ok", `{"success":true}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				_, _ = w.Write([]byte(tt.body))
			}, "tok")

			got, err := NewAuthAPI(c).Verify(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostsAPI_ListMapsFields(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"posts":[
			{"id":1,"title":"A","description":"body a","featuredImageUrl":"http://img/a.png","tags":["go"],"isPublished":true,"createdAt":"2024-05-01T10:00:00.123"},
			{"id":2,"title":"B","content":"body b","featuredImageUrl":"","createdAt":"2024-05-02T10:00:00Z","viewCount":3}
		]}`))
	}, "tok")

	posts, err := NewPostsAPI(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "body a", posts[0].Content)
	require.NotNil(t, posts[0].FeaturedImage)
	assert.Equal(t, "http://img/a.png", *posts[0].FeaturedImage)
	assert.True(t, posts[0].IsPublished)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC), posts[0].CreatedAt)

	assert.Equal(t, "body b", posts[1].Content)
	assert.Nil(t, posts[1].FeaturedImage)
	assert.Equal(t, []string{}, posts[1].Tags)
	assert.Equal(t, 3, posts[1].ViewCount)
}

func TestPostsAPI_ListToleratesOddCreatedAt(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"posts":[
			{"id":1,"title":"seconds","createdAt":1714557600},
			{"id":2,"title":"millis","createdAt":1714557600123},
			{"id":3,"title":"garbage","createdAt":"last tuesday"},
			{"id":4,"title":"object","createdAt":{"seconds":1}},
			{"id":5,"title":"null","createdAt":null}
		]}`))
	}, "tok")

	posts, err := NewPostsAPI(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 5)

	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), posts[0].CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC), posts[1].CreatedAt)
	for _, p := range posts[2:] {
		assert.True(t, p.CreatedAt.IsZero(), p.Title)
	}
}

func TestPostsAPI_ListRequiresSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts":[]}`))
	}, "tok")

	_, err := NewPostsAPI(c).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch posts.", err.Error())
}

func TestPostsAPI_Get(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Post/9", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"post":{"title":"T","description":"D","excerpt":"E","tags":["x"],"isPublished":false}}`))
	}, "tok")

	p, err := NewPostsAPI(c).Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, "D", p.Content)
	assert.True(t, p.IsDraft())
}

func TestPostsAPI_CreateAndUpdate(t *testing.T) {
	img := "data:image/png;base64,AA=="
	var gotMethod, gotPath string
	var gotBody map[string]any

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"success":true,"post":{"id":31}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}, "tok")
	api := NewPostsAPI(c)

	id, err := api.Create(context.Background(), models.Post{Title: "T", Content: "C", FeaturedImage: &img})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/Post", gotPath)
	assert.Equal(t, "C", gotBody["description"])
	assert.Equal(t, img, gotBody["featuredImage"])
	assert.Equal(t, false, gotBody["isPublished"])
	assert.Equal(t, []any{}, gotBody["tags"])

	id, err = api.Update(context.Background(), models.Post{ID: 31, Title: "T2", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/Post/31", gotPath)
	assert.Equal(t, true, gotBody["isPublished"])

	_, err = api.Update(context.Background(), models.Post{})
	require.Error(t, err)
}

func TestPostsAPI_Delete(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/Post/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	require.NoError(t, NewPostsAPI(c).Delete(context.Background(), 5))
	assert.Equal(t, int32(1), calls.Load())
}
