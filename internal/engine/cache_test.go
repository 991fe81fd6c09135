package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymark/internal/domain"
)

func TestCacheRefresh(t *testing.T) {
	store := newFakeStore()
	store.set = domain.Set{
		"alice-42": {Key: "alice-42", Payload: domain.Payload{URL: "u"}},
	}
	cache := NewCache(store)

	assert.False(t, cache.IsBookmarked("alice-42"))
	require.NoError(t, cache.Refresh(context.Background()))
	assert.True(t, cache.IsBookmarked("alice-42"))
	assert.Equal(t, 1, cache.Len())
	assert.False(t, cache.LastRefresh().IsZero())
}

func TestCacheRefreshFailureKeepsSnapshot(t *testing.T) {
	store := newFakeStore()
	store.set = domain.Set{"alice-42": {Key: "alice-42"}}
	cache := NewCache(store)
	require.NoError(t, cache.Refresh(context.Background()))

	store.readErr = errors.New("transport gone")
	err := cache.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, cache.IsBookmarked("alice-42"), "stale answers beat no answers")
}

func TestCacheSnapshotIsIndependent(t *testing.T) {
	cache := NewCache(newFakeStore())
	cache.Replace(domain.Set{"alice-42": {Key: "alice-42"}})

	snap := cache.Snapshot()
	delete(snap, "alice-42")
	assert.True(t, cache.IsBookmarked("alice-42"))
}

func TestCacheReplaceClonesInput(t *testing.T) {
	cache := NewCache(newFakeStore())
	set := domain.Set{"alice-42": {Key: "alice-42"}}
	cache.Replace(set)

	delete(set, "alice-42")
	assert.True(t, cache.IsBookmarked("alice-42"))
}
