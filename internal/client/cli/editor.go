package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/blogdesk/internal/client/client"
	"github.com/dmitrijs2005/blogdesk/internal/client/services"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// New composes a post from scratch.
func (a *App) New(ctx context.Context) error {
	e := services.NewEditor(a.posts, a.images)
	return a.compose(ctx, e, false)
}

// Edit loads post <id> and lets the user change it field by field.
func (a *App) Edit(ctx context.Context, args []string) error {
	ids, err := a.idArgs(args, "Post ID")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	e := services.NewEditor(a.posts, a.images)
	if err := e.Load(ctx, ids[0]); err != nil {
		return a.fail(ctx, err)
	}
	printPost(a, e.Post())
	fmt.Fprintln(a.out)

	return a.compose(ctx, e, true)
}

// compose walks the user through every field of e and saves on request.
// When editing, an empty answer keeps the current value.
func (a *App) compose(ctx context.Context, e *services.Editor, editing bool) error {
	keep := ""
	if editing {
		keep = " (empty keeps current)"
	}

	title, err := getSimpleText(a.reader, "Title"+keep, a.out)
	if err != nil {
		return err
	}
	if title != "" || !editing {
		e.SetTitle(title)
	}

	content, err := getMultiline(a.reader, "Content"+keep, a.out)
	if err != nil {
		return err
	}
	if content != "" || !editing {
		e.SetContent(content)
	}
	fmt.Fprintf(a.out, "Words: %d\n", e.WordCount())

	excerpt, err := getSimpleText(a.reader, "Excerpt"+keep, a.out)
	if err != nil {
		return err
	}
	if excerpt != "" || !editing {
		e.SetExcerpt(excerpt)
	}

	tags, err := getSimpleText(a.reader, "Tags, comma separated (prefix a tag with - to remove it)", a.out)
	if err != nil {
		return err
	}
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if rest, ok := strings.CutPrefix(t, "-"); ok {
			e.RemoveTag(strings.TrimSpace(rest))
			continue
		}
		e.AddTag(t)
	}

	image, err := getSimpleText(a.reader, "Featured image file (empty keeps current, - removes it)", a.out)
	if err != nil {
		return err
	}
	a.applyImage(ctx, e, image)

	for {
		choice, err := getSimpleText(a.reader, "Save as (d)raft, (p)ublish or (c)ancel?", a.out)
		if err != nil {
			return err
		}

		var id int64
		switch strings.ToLower(choice) {
		case "d", "draft":
			id, err = e.SaveDraft(ctx)
		case "p", "publish":
			id, err = e.Publish(ctx)
		case "c", "cancel", "":
			fmt.Fprintln(a.out, "Discarded changes.")
			return nil
		default:
			fmt.Fprintln(a.out, "Please answer d, p or c.")
			continue
		}

		if err == nil {
			if e.Post().IsPublished {
				fmt.Fprintf(a.out, "Published post #%d.\n", id)
			} else {
				fmt.Fprintf(a.out, "Saved draft #%d.\n", id)
			}
			return nil
		}

		switch {
		case errors.Is(err, services.ErrTitleRequired):
			fmt.Fprintln(a.out, e.Error())
			title, terr := getSimpleText(a.reader, "Title", a.out)
			if terr != nil {
				return terr
			}
			e.SetTitle(title)
		case ctx.Err() != nil:
			fmt.Fprintln(a.out, "Cancelled.")
			return ctx.Err()
		case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNotAuthenticated):
			return a.fail(ctx, err)
		default:
			fmt.Fprintln(a.out, "Error:", e.Error())
		}
	}
}

func (a *App) applyImage(ctx context.Context, e *services.Editor, answer string) {
	switch answer {
	case "":
	case "-":
		e.RemoveFeaturedImage()
	default:
		data, err := readFile(answer)
		if err != nil {
			fmt.Fprintln(a.out, "Cannot read image:", err.Error())
			return
		}
		if err := e.SetFeaturedImage(ctx, filepath.Base(answer), data); err != nil {
			fmt.Fprintln(a.out, "Cannot use image:", e.Error())
		}
	}
}
