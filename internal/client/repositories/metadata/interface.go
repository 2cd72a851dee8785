// Package metadata is a small key/value store kept in the local client
// database. The session token and the cached user profile live here.
package metadata

import (
	"context"

	"github.com/dmitrijs2005/blogdesk/internal/dbx"
)

// Repository reads and writes opaque values by key. Get returns (nil, nil)
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	// WithDB returns the same repository bound to db, typically a transaction.
	WithDB(db dbx.DBTX) Repository
}
