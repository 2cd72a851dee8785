// Package posts stores blog posts for the devserver, in PostgreSQL or in
// process memory.
package posts

import (
	"context"

	"github.com/dmitrijs2005/blogdesk/internal/server/models"
)

// Repository persists posts. Unknown ids, and posts owned by someone else
// where an owner is given, return common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id int64, userID string) error
}
