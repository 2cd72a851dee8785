package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogdesk/internal/dbx"
	"github.com/dmitrijs2005/blogdesk/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogdesk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs on a plain connection or inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
}
