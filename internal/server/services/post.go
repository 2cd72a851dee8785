package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogdesk/internal/common"
	"github.com/dmitrijs2005/blogdesk/internal/dbx"
	"github.com/dmitrijs2005/blogdesk/internal/server/models"
	"github.com/dmitrijs2005/blogdesk/internal/server/repositories/repomanager"
)

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title            string
	Description      string
	Excerpt          string
	Tags             []string
	FeaturedImageURL *string
	IsPublished      bool
}

func (in *PostInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalid("Title is required")
	}

	tags := make([]string, 0, len(in.Tags))
	seen := make(map[string]struct{}, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	in.Tags = tags

	if in.FeaturedImageURL != nil && strings.TrimSpace(*in.FeaturedImageURL) == "" {
		in.FeaturedImageURL = nil
	}
	return nil
}

func (in PostInput) apply(p *models.Post) {
	p.Title = in.Title
	p.Description = in.Description
	p.Excerpt = in.Excerpt
	p.Tags = in.Tags
	p.FeaturedImageURL = in.FeaturedImageURL
	p.IsPublished = in.IsPublished
}

// PostService manages the posts of signed-in users. Everyone reads their
// own posts; other users' posts are visible only once published and can
// never be changed.
type PostService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

// NewPostService constructs a PostService. db may be nil for in-memory
// managers.
func NewPostService(db dbx.DBTX, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

func (s *PostService) List(ctx context.Context, userID string) ([]*models.Post, error) {
	posts, err := s.repomanager.Posts(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, userID string, id int64) (*models.Post, error) {
	p, err := s.repomanager.Posts(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CreatedBy != userID && !p.IsPublished {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (s *PostService) Create(ctx context.Context, userID string, in PostInput) (*models.Post, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	p := &models.Post{CreatedBy: userID}
	in.apply(p)

	created, err := s.repomanager.Posts(s.db).Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update replaces the editable fields of post id. The ownership check and
// the write share one transaction when the store supports them.
func (s *PostService) Update(ctx context.Context, userID string, id int64, in PostInput) (*models.Post, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var updated *models.Post
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		p, err := s.owned(ctx, repo.Get, userID, id)
		if err != nil {
			return err
		}
		in.apply(p)

		updated, err = repo.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes post id if userID owns it.
func (s *PostService) Delete(ctx context.Context, userID string, id int64) error {
	return s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)
		if _, err := s.owned(ctx, repo.Get, userID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id, userID)
	})
}

func (s *PostService) owned(ctx context.Context, get func(context.Context, int64) (*models.Post, error), userID string, id int64) (*models.Post, error) {
	p, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CreatedBy != userID {
		if p.IsPublished {
			return nil, common.ErrorForbidden
		}
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (s *PostService) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if b, ok := s.db.(dbx.Beginner); ok {
		return dbx.WithTx(ctx, b, nil, fn)
	}
	return fn(ctx, s.db)
}
