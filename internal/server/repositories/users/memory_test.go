package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogdesk/internal/common"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, sampleUser())
	require.NoError(t, err)
	assert.False(t, u.CreatedAt.IsZero())

	dup := sampleUser()
	dup.ID = "u-2"
	dup.Email = "ADA@example.org"
	_, err = r.Create(ctx, dup)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByEmail(ctx, "Ada@Example.org")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	got, err = r.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ada", got.UserName)

	_, err = r.GetByID(ctx, "u-2")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByEmail(ctx, "nobody@example.org")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
