package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"skymark/internal/domain"
)

// GetBookmarks retrieves the complete persisted bookmark set.
// A missing key is not an error: it returns an empty set.
func (s *Store) GetBookmarks(ctx context.Context) (domain.Set, error) {
	data, err := s.client.Get(ctx, BookmarkSetKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Set{}, nil
		}
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	var set domain.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmarks: %w", err)
	}
	if set == nil {
		set = domain.Set{}
	}

	return set, nil
}

// SetBookmarks replaces the complete persisted bookmark set.
// The write is wholesale and unconditional: when two writers race, the
// later SetBookmarks wins and the earlier one's effect is discarded.
func (s *Store) SetBookmarks(ctx context.Context, set domain.Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	if err := s.client.Set(ctx, BookmarkSetKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}

	return nil
}

// Clear removes every bookmark by persisting an empty set.
func (s *Store) Clear(ctx context.Context) error {
	return s.SetBookmarks(ctx, domain.Set{})
}
