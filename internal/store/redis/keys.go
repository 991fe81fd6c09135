package redis

const (
	// KeyBookmarkSet is the key holding the complete bookmark set as one
	// JSON document. The set is read and written wholesale: the store
	// contract is get/set of the full mapping, not per-record access.
	KeyBookmarkSet = "skymark:bookmarks"
)

// BookmarkSetKey returns the Redis key for the persisted bookmark set.
func BookmarkSetKey() string {
	return KeyBookmarkSet
}
