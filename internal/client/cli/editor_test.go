package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogdesk/internal/client/client"
	"github.com/dmitrijs2005/blogdesk/internal/client/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func stubReadFile(t *testing.T, data []byte, err error) {
	t.Helper()
	orig := readFile
	readFile = func(string) ([]byte, error) { return data, err }
	t.Cleanup(func() { readFile = orig })
}

func TestNew_Publish(t *testing.T) {
	api := newMemAPI()
	a, out := newTestApp(loggedIn(), api)
	(&scripted{
		texts:     []string{"Hello", "short intro", "go, cli, go", "", "p"},
		multiline: []string{"one two three"},
	}).install(t)

	require.NoError(t, a.New(context.Background()))

	require.Contains(t, api.posts, int64(101))
	p := api.posts[101]
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "one two three", p.Content)
	assert.Equal(t, "short intro", p.Excerpt)
	assert.Equal(t, []string{"go", "cli"}, p.Tags)
	assert.True(t, p.IsPublished)
	assert.Nil(t, p.FeaturedImage)
	assert.Contains(t, out.String(), "Words: 3")
	assert.Contains(t, out.String(), "Published post #101.")
}

func TestNew_TitleRequiredReprompts(t *testing.T) {
	api := newMemAPI()
	a, out := newTestApp(loggedIn(), api)
	(&scripted{texts: []string{"", "", "", "", "d", "Fixed", "d"}}).install(t)

	require.NoError(t, a.New(context.Background()))
	assert.Contains(t, out.String(), "Title is required")
	assert.Contains(t, out.String(), "Saved draft #101.")
	assert.Equal(t, 1, api.saveCalls)
	assert.Equal(t, "Fixed", api.posts[101].Title)
	assert.False(t, api.posts[101].IsPublished)
}

func TestNew_CancelDiscards(t *testing.T) {
	api := newMemAPI()
	a, out := newTestApp(loggedIn(), api)
	(&scripted{texts: []string{"T", "", "", "", "x", "c"}}).install(t)

	require.NoError(t, a.New(context.Background()))
	assert.Contains(t, out.String(), "Please answer d, p or c.")
	assert.Contains(t, out.String(), "Discarded changes.")
	assert.Zero(t, api.saveCalls)
}

func TestNew_WithImage(t *testing.T) {
	stubReadFile(t, pngHeader, nil)
	api := newMemAPI()
	a, _ := newTestApp(loggedIn(), api)
	(&scripted{texts: []string{"Pic", "", "", "/tmp/cover.png", "d"}}).install(t)

	require.NoError(t, a.New(context.Background()))
	img := api.posts[101].FeaturedImage
	require.NotNil(t, img)
	assert.True(t, strings.HasPrefix(*img, "data:image/png;base64,"))
}

func TestNew_BadImageKeepsGoing(t *testing.T) {
	stubReadFile(t, []byte("plain text"), nil)
	api := newMemAPI()
	a, out := newTestApp(loggedIn(), api)
	(&scripted{texts: []string{"Pic", "", "", "notes.txt", "d"}}).install(t)

	require.NoError(t, a.New(context.Background()))
	assert.Contains(t, out.String(), "Cannot use image: file is not an image")
	assert.Nil(t, api.posts[101].FeaturedImage)
}

func TestNew_UnreadableImage(t *testing.T) {
	stubReadFile(t, nil, errors.New("no such file"))
	a, out := newTestApp(loggedIn(), newMemAPI())
	(&scripted{texts: []string{"Pic", "", "", "missing.png", "c"}}).install(t)

	require.NoError(t, a.New(context.Background()))
	assert.Contains(t, out.String(), "Cannot read image: no such file")
}

func TestEdit_KeepsAndChangesFields(t *testing.T) {
	img := "https://cdn.example/old.png"
	api := newMemAPI(models.Post{ID: 5, Title: "Old", Content: "body text", Excerpt: "ex", Tags: []string{"a"}, FeaturedImage: &img, IsPublished: true})
	a, out := newTestApp(loggedIn(), api)
	(&scripted{texts: []string{"", "", "-a, b", "-", "d"}}).install(t)

	require.NoError(t, a.Edit(context.Background(), []string{"5"}))

	p := api.posts[5]
	assert.Equal(t, "Old", p.Title)
	assert.Equal(t, "body text", p.Content)
	assert.Equal(t, "ex", p.Excerpt)
	assert.Equal(t, []string{"b"}, p.Tags)
	assert.Nil(t, p.FeaturedImage)
	assert.False(t, p.IsPublished)
	assert.Contains(t, out.String(), "#5 Old [published]")
	assert.Contains(t, out.String(), "Saved draft #5.")
}

func TestEdit_SaveRejectedChecksSession(t *testing.T) {
	api := newMemAPI(models.Post{ID: 5, Title: "Old", Tags: []string{}})
	api.saveErr = &client.APIError{Kind: client.KindServer, StatusCode: 401, Message: "Unauthorized"}
	sess := loggedIn()
	sess.verifyErr = errors.New("expired")
	a, out := newTestApp(sess, api)
	sess.Subscribe(a.onSessionChange)
	(&scripted{texts: []string{"New", "", "", "", "p"}}).install(t)

	err := a.Edit(context.Background(), []string{"5"})
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, sess.verifyCalls)
	assert.True(t, a.takeRedirect())
	assert.Contains(t, out.String(), "Error: Unauthorized")
}

func TestEdit_ServerErrorRetries(t *testing.T) {
	api := newMemAPI(models.Post{ID: 5, Title: "Old", Tags: []string{}})
	api.saveErr = &client.APIError{Kind: client.KindServer, StatusCode: 500, Message: "API request failed"}
	a, out := newTestApp(loggedIn(), api)
	(&scripted{texts: []string{"", "", "", "", "p", "c"}}).install(t)

	require.NoError(t, a.Edit(context.Background(), []string{"5"}))
	assert.Contains(t, out.String(), "Error: API request failed")
	assert.Contains(t, out.String(), "Discarded changes.")
	assert.Equal(t, 1, api.saveCalls)
}

func TestEdit_MissingPost(t *testing.T) {
	a, out := newTestApp(loggedIn(), newMemAPI())
	require.Error(t, a.Edit(context.Background(), []string{"77"}))
	assert.Equal(t, "Error: Post not found\n", out.String())
}
