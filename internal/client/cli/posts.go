package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
	"github.com/dmitrijs2005/blogdesk/internal/client/services"
)

type listFilter int

const (
	filterAll listFilter = iota
	filterDrafts
	filterPublished
)

func postStatus(p models.Post) string {
	if p.IsPublished {
		return "published"
	}
	return "draft"
}

func printPosts(a *App, posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tTAGS\tCREATED")
	for _, p := range posts {
		created := ""
		if !p.CreatedAt.IsZero() {
			created = p.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, postStatus(p), p.Title, strings.Join(p.Tags, ","), created)
	}
	_ = w.Flush()
}

// List fetches the posts and prints the selected side of the partition.
func (a *App) List(ctx context.Context, filter listFilter) error {
	q := services.NewPostsQuery(a.posts)
	if err := q.Fetch(ctx); err != nil {
		return a.fail(ctx, err)
	}

	switch filter {
	case filterDrafts:
		printPosts(a, q.Drafts())
	case filterPublished:
		printPosts(a, q.Published())
	default:
		st := q.State()
		printPosts(a, st.Posts)
		drafts, published := models.PartitionPosts(st.Posts)
		fmt.Fprintf(a.out, "%d draft(s), %d published\n", len(drafts), len(published))
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}

// idArgs parses ids from args, prompting once when none were given.
func (a *App) idArgs(args []string, prompt string) ([]int64, error) {
	if len(args) == 0 {
		line, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return nil, err
		}
		args = strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no post id given")
	}

	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Show prints one post in full.
func (a *App) Show(ctx context.Context, args []string) error {
	ids, err := a.idArgs(args, "Post ID")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	p, err := a.posts.Get(ctx, ids[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	printPost(a, *p)
	return nil
}

func printPost(a *App, p models.Post) {
	fmt.Fprintf(a.out, "#%d %s [%s]\n", p.ID, p.Title, postStatus(p))
	if len(p.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Excerpt != "" {
		fmt.Fprintf(a.out, "Excerpt: %s\n", p.Excerpt)
	}
	if p.FeaturedImage != nil {
		fmt.Fprintf(a.out, "Featured image: %s\n", shortenImage(*p.FeaturedImage))
	}
	fmt.Fprintf(a.out, "Words: %d\n\n%s\n", models.WordCount(p.Content), p.Content)
}

// data URLs are unreadable in a terminal
func shortenImage(url string) string {
	if strings.HasPrefix(url, "data:") {
		mime, _, _ := strings.Cut(strings.TrimPrefix(url, "data:"), ";")
		return fmt.Sprintf("<inline %s, %d bytes>", mime, len(url))
	}
	return url
}

// Delete removes the given posts after confirmation, reports each outcome
// and prints the refreshed list.
func (a *App) Delete(ctx context.Context, args []string) error {
	ids, err := a.idArgs(args, "Post IDs to delete (space separated)")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	ok, err := confirm(a.reader, fmt.Sprintf("Delete %d post(s)?", len(ids)), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	res := a.posts.DeleteMany(ctx, ids)
	for _, id := range res.Succeeded {
		fmt.Fprintf(a.out, "Deleted #%d\n", id)
	}
	for _, id := range ids {
		if ferr, failed := res.Failed[id]; failed {
			fmt.Fprintf(a.out, "Failed to delete #%d: %s\n", id, ferr.Error())
		}
	}

	q := services.NewPostsQuery(a.posts)
	if err := q.Refetch(ctx); err != nil {
		return a.fail(ctx, err)
	}
	printPosts(a, q.State().Posts)

	if !res.OK() {
		return fmt.Errorf("%d of %d deletes failed", len(res.Failed), len(ids))
	}
	return nil
}
