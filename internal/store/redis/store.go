package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store is the client facade over the external persisted bookmark set.
// The set is owned by the Redis instance, which may be written to by other
// processes; callers must treat every read as a snapshot and every write
// as last-write-wins.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis-backed bookmark store client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}
