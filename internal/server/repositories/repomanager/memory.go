package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogdesk/internal/dbx"
	"github.com/dmitrijs2005/blogdesk/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogdesk/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out one shared set of in-memory
// repositories. The DBTX arguments are ignored, and there is nothing to
// migrate.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	posts *posts.MemoryRepository
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		posts: posts.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Posts(dbx.DBTX) posts.Repository {
	return m.posts
}
