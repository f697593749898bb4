package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type record struct {
		Brand   string   `json:"brand"`
		Queries []string `json:"queries"`
	}

	want := record{Brand: "Acme", Queries: []string{"what is Acme", "Acme reviews"}}
	require.NoError(t, c.Set(ctx, "queries:acme", want, 0))

	var got record
	require.NoError(t, c.Get(ctx, "queries:acme", &got))
	assert.Equal(t, want, got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache()
	var dest string
	err := c.Get(context.Background(), "absent", &dest)
	assert.True(t, IsMiss(err))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	err := c.Get(ctx, "k", &got)
	assert.True(t, IsMiss(err))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Overwrite(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 0))
	require.NoError(t, c.Set(ctx, "k", 2, 0))

	var got int
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 2, got)
}
