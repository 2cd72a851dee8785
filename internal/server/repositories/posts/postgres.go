package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogdesk/internal/common"
	"github.com/dmitrijs2005/blogdesk/internal/dbx"
	"github.com/dmitrijs2005/blogdesk/internal/server/models"
)

// PostgresRepository implements post storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// Tags live in a JSONB column.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectPost = `SELECT id, title, description, excerpt, tags, featured_image_url, is_published,
		created_by, created_at, updated_at, view_count FROM posts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p     models.Post
		tags  []byte
		image sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Excerpt, &tags, &image, &p.IsPublished,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.ViewCount); err != nil {
		return nil, err
	}
	if err := decodeTags(tags, &p); err != nil {
		return nil, err
	}
	if image.Valid {
		p.FeaturedImageURL = &image.String
	}
	return &p, nil
}

func decodeTags(data []byte, p *models.Post) error {
	p.Tags = []string{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &p.Tags); err != nil {
		return fmt.Errorf("post %d tags: %w", p.ID, err)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// List returns the posts of userID, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Post, error) {
	query := selectPost + ` WHERE created_by = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	tags, err := encodeTags(post.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	query :=
		`INSERT INTO posts (title, description, excerpt, tags, featured_image_url, is_published, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		post.Title, post.Description, post.Excerpt, tags, nullable(post.FeaturedImageURL), post.IsPublished, post.CreatedBy).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// Update replaces the editable fields of post.ID, provided it belongs to
// post.CreatedBy.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	tags, err := encodeTags(post.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	query :=
		`UPDATE posts SET title = $1, description = $2, excerpt = $3, tags = $4,
		 featured_image_url = $5, is_published = $6, updated_at = now()
		 WHERE id = $7 AND created_by = $8
		 RETURNING created_at, updated_at, view_count
		 `

	err = r.db.QueryRowContext(ctx, query,
		post.Title, post.Description, post.Excerpt, tags, nullable(post.FeaturedImageURL), post.IsPublished,
		post.ID, post.CreatedBy).
		Scan(&post.CreatedAt, &post.UpdatedAt, &post.ViewCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND created_by = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
