// Package tokenstore persists the session token and the cached user profile
// between runs of the client.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
	"github.com/dmitrijs2005/blogdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/blogdesk/internal/dbx"
)

const (
	KeyToken = "authToken"
	KeyUser  = "user"
)

var (
	// ErrEmpty is returned by Load when no session has been stored.
	ErrEmpty = errors.New("no stored session")
	// ErrCorrupt is returned by Load when the stored user cannot be decoded.
	ErrCorrupt = errors.New("stored session is corrupt")
)

// Store keeps the token and user under fixed metadata keys. Token and user
// are always written and removed together.
type Store struct {
	db   dbx.Beginner
	repo metadata.Repository
}

func New(db interface {
	dbx.Beginner
	dbx.DBTX
}) *Store {
	return &Store{db: db, repo: metadata.NewSQLiteRepository(db)}
}

// Save replaces any stored session with token and user.
func (s *Store) Save(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return errors.New("save session: empty token")
	}

	var userJSON []byte
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		userJSON = b
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo.WithDB(tx)
		if err := r.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		if userJSON == nil {
			return r.Delete(ctx, KeyUser)
		}
		return r.Set(ctx, KeyUser, userJSON)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the stored token and user. A token stored without a user
// yields a nil user.
func (s *Store) Load(ctx context.Context) (string, *models.User, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return "", nil, err
	}
	if token == "" {
		return "", nil, ErrEmpty
	}

	raw, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if len(raw) == 0 {
		return token, nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return token, &user, nil
}

// Token returns the stored bearer token or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(raw), nil
}

// Clear removes token and user. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
