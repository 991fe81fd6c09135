package engine

import (
	"context"
	"sync"
	"time"

	"skymark/internal/domain"
)

// Cache is the process-wide mirror of the persisted bookmark set, used
// for the initial visual state of attached controls. It is refreshed
// wholesale and written from exactly two places: Refresh, and the toggle
// coordinator immediately after a successful persist. Everything else
// reads only.
type Cache struct {
	mu          sync.RWMutex
	store       Store
	set         domain.Set
	lastRefresh time.Time
}

// NewCache creates an empty cache over the given store.
func NewCache(store Store) *Cache {
	return &Cache{store: store, set: domain.Set{}}
}

// Refresh replaces the mirror with the current persisted set.
func (c *Cache) Refresh(ctx context.Context) error {
	set, err := c.store.GetBookmarks(ctx)
	if err != nil {
		return err
	}
	c.Replace(set)
	return nil
}

// Replace installs a new snapshot.
func (c *Cache) Replace(set domain.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = set.Clone()
	c.lastRefresh = time.Now()
}

// IsBookmarked reports whether the key is present in the mirrored set.
// The answer is only as fresh as the last refresh or persist.
func (c *Cache) IsBookmarked(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.set[key]
	return ok
}

// Snapshot returns a copy of the mirrored set.
func (c *Cache) Snapshot() domain.Set {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set.Clone()
}

// Len returns the number of mirrored records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.set)
}

// LastRefresh returns when the mirror last changed.
func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}
