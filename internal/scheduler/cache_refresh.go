package scheduler

import (
	"context"
	"fmt"
	"time"

	"skymark/internal/engine"
	"skymark/internal/logger"
)

// Triggerer requests a reconcile pass after the mirror changed.
type Triggerer interface {
	Trigger()
}

// CacheRefresher periodically re-reads the persisted bookmark set into
// the engine cache, picking up writes made by other contexts, and nudges
// the watcher so controls re-style.
type CacheRefresher struct {
	cache         *engine.Cache
	watcher       Triggerer
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCacheRefresher creates a new cache refresher. manualTrigger may be
// nil when no out-of-band refresh source exists.
func NewCacheRefresher(
	cache *engine.Cache,
	watcher Triggerer,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CacheRefresher {
	return &CacheRefresher{
		cache:         cache,
		watcher:       watcher,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start performs an immediate refresh, then refreshes on the interval
// until Stop or ctx cancellation.
func (cr *CacheRefresher) Start(ctx context.Context) error {
	if err := cr.refresh(ctx); err != nil {
		return fmt.Errorf("initial cache refresh failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.refresh(ctx); err != nil {
					cr.logger.Error("failed to refresh bookmark cache",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual cache refresh triggered")
				if err := cr.refresh(ctx); err != nil {
					cr.logger.Error("failed to refresh bookmark cache",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher.
func (cr *CacheRefresher) Stop() {
	close(cr.stopCh)
}

func (cr *CacheRefresher) refresh(ctx context.Context) error {
	if err := cr.cache.Refresh(ctx); err != nil {
		return err
	}
	cr.logger.Debug("bookmark cache refreshed",
		logger.Int("count", cr.cache.Len()))
	if cr.watcher != nil {
		cr.watcher.Trigger()
	}
	return nil
}
