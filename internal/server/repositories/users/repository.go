package users

import (
	"context"

	"github.com/dmitrijs2005/blogdesk/internal/server/models"
)

// Repository stores accounts. Lookups of unknown users return
// common.ErrorNotFound, a second account with the same email
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
