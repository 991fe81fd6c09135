package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"skymark/internal/dom"
	"skymark/internal/domain"
	"skymark/internal/logger"
)

// Store is the request/response facade over the external persisted
// bookmark set. Reads return snapshots; writes are wholesale and
// last-write-wins. The coordinator never assumes it is the only writer.
type Store interface {
	GetBookmarks(ctx context.Context) (domain.Set, error)
	SetBookmarks(ctx context.Context, set domain.Set) error
}

// Coordinator turns one user click into one logical, idempotent toggle:
// resolve identity, extract if adding, read-modify-write the store, and
// reflect the result. Exactly one persist call per successful toggle and
// never a partially written record.
type Coordinator struct {
	store    Store
	cache    *Cache
	pipeline *Pipeline
	aff      *Affordance
	resolver *Resolver
	notify   Notifier
	log      logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]bool
}

// NewCoordinator wires a toggle coordinator.
func NewCoordinator(
	store Store,
	cache *Cache,
	pipeline *Pipeline,
	aff *Affordance,
	resolver *Resolver,
	notify Notifier,
	log logger.Logger,
) *Coordinator {
	return &Coordinator{
		store:    store,
		cache:    cache,
		pipeline: pipeline,
		aff:      aff,
		resolver: resolver,
		notify:   notify,
		log:      log,
		now:      time.Now,
		inflight: make(map[string]bool),
	}
}

// OnToggle handles one delegated click on a toggle control. The target is
// the live click target; the owning control and post are re-resolved from
// it because the elements attached earlier may have been rebuilt since.
func (c *Coordinator) OnToggle(ctx context.Context, target dom.Element) {
	op := uuid.NewString()[:8]

	control, ok := c.aff.ResolveControl(target)
	if !ok {
		return
	}
	item, ok := c.aff.ItemForControl(control)
	if !ok {
		c.notify.Notify("Error: Could not find the post for this bookmark.")
		return
	}
	key, url, err := c.resolver.Resolve(item)
	if err != nil {
		c.log.Warn("toggle on unresolvable post", logger.String("op", op), logger.Error(err))
		c.notify.Notify("Error: Could not identify this post.")
		return
	}

	// Re-clicks on a control whose toggle is still in flight are
	// ignored; the extraction dialog surface is a singleton.
	if !c.begin(key) {
		c.log.Debug("toggle already in flight", logger.String("op", op), logger.String("key", key))
		return
	}
	defer c.end(key)

	set, err := c.store.GetBookmarks(ctx)
	if err != nil {
		c.log.Error("failed to fetch bookmarks", logger.String("op", op), logger.Error(err))
		c.notify.Notify("Error retrieving bookmarks. Please try again.")
		return
	}

	if _, present := set[key]; present {
		c.remove(ctx, op, key, set, control)
		return
	}
	c.add(ctx, op, key, url, set, item, control)
}

// remove deletes the key from the fetched snapshot and persists it.
// Removal never invokes extraction.
func (c *Coordinator) remove(ctx context.Context, op, key string, set domain.Set, control dom.Element) {
	delete(set, key)
	if err := c.store.SetBookmarks(ctx, set); err != nil {
		c.log.Error("failed to persist removal", logger.String("op", op), logger.String("key", key), logger.Error(err))
		c.notify.Notify("Error saving bookmark. Please try again.")
		return
	}
	c.cache.Replace(set)
	if err := c.aff.Reflect(control, false); err != nil {
		c.log.Debug("failed to reflect removal", logger.String("op", op), logger.Error(err))
	}
	c.notify.Notify("Bookmark removed")
	c.log.Info("bookmark removed", logger.String("op", op), logger.String("key", key), logger.Int("set_size", len(set)))
}

// add runs the extraction pipeline and, only on success, persists the
// new record. On any other outcome the persisted set and the control are
// left untouched.
func (c *Coordinator) add(ctx context.Context, op, key, url string, set domain.Set, item, control dom.Element) {
	outcome := c.pipeline.Run(ctx, item, url)
	if !outcome.Extracted() {
		c.log.Info("extraction did not produce a payload",
			logger.String("op", op),
			logger.String("key", key),
			logger.String("state", outcome.State.String()),
			logger.String("reason", outcome.Reason))
		c.notify.Notify(unavailableNotice(outcome))
		return
	}

	// Record and insertion are constructed together ahead of the single
	// persist call, so a failed write leaves nothing half-applied.
	set[key] = domain.Record{
		Key: key,
		Payload: domain.Payload{
			RawEmbedMarkup: outcome.Markup,
			URL:            outcome.URL,
		},
		SavedAt: c.now(),
	}
	if err := c.store.SetBookmarks(ctx, set); err != nil {
		c.log.Error("failed to persist addition", logger.String("op", op), logger.String("key", key), logger.Error(err))
		c.notify.Notify("Error saving bookmark. Please try again.")
		return
	}
	c.cache.Replace(set)
	if err := c.aff.Reflect(control, true); err != nil {
		c.log.Debug("failed to reflect addition", logger.String("op", op), logger.Error(err))
	}
	c.notify.Notify("Bookmark added")
	c.log.Info("bookmark added", logger.String("op", op), logger.String("key", key), logger.Int("set_size", len(set)))
}

func unavailableNotice(o Outcome) string {
	if o.State == StateTimedOut {
		return "Error: The share dialog did not respond in time."
	}
	switch o.Reason {
	case ReasonOptionsMissing:
		return "Error: Could not find post options."
	case ReasonEmbedNotOffered:
		return "Bookmarking is only available for posts with embed enabled."
	default:
		return "Error: Could not get post data."
	}
}

func (c *Coordinator) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}
