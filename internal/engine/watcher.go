package engine

import (
	"context"

	"skymark/internal/dom"
	"skymark/internal/logger"
	"skymark/internal/profile"
)

// Opener presents the full bookmark list in a separate view.
// Fire-and-forget: the watcher does not wait for the view.
type Opener interface {
	OpenListView() error
}

// Watcher observes the document for posts appearing across initial load,
// pagination, and client-side navigation, and drives attachment. It never
// escalates a per-item failure: one undecoratable post must not prevent
// attachment on the rest or on future mutations.
type Watcher struct {
	doc     dom.Document
	src     dom.Source
	aff     *Affordance
	coord   *Coordinator
	opener  Opener
	log     logger.Logger
	prof    profile.Profile
	trigger chan struct{}
}

// NewWatcher wires an observation engine.
func NewWatcher(
	doc dom.Document,
	src dom.Source,
	aff *Affordance,
	coord *Coordinator,
	opener Opener,
	prof profile.Profile,
	log logger.Logger,
) *Watcher {
	return &Watcher{
		doc:     doc,
		src:     src,
		aff:     aff,
		coord:   coord,
		opener:  opener,
		log:     log,
		prof:    prof,
		trigger: make(chan struct{}, 1),
	}
}

// Trigger requests a reconcile pass outside the mutation stream, e.g.
// after a periodic cache refresh.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run performs the initial synchronous scan, then processes page events
// until ctx is done. Toggles run inline: the engine assumes at most one
// in-flight toggle, matching the singleton dialog surface.
func (w *Watcher) Run(ctx context.Context) error {
	events, err := w.src.Events(ctx)
	if err != nil {
		return err
	}

	// The page may be fully rendered before observation begins.
	w.Reconcile()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.trigger:
			w.Reconcile()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch {
			case ev.SubtreeChanged:
				w.Reconcile()
			case ev.ClickTarget != nil:
				w.handleClick(ctx, ev.ClickTarget)
			}
		}
	}
}

// Reconcile ensures every currently rendered post has exactly one
// correctly-stated control. It processes items independently, with no
// ordering guarantee across simultaneous insertions.
func (w *Watcher) Reconcile() {
	for _, item := range w.doc.QueryAll(w.prof.ItemSelector) {
		if err := w.aff.Attach(item); err != nil {
			w.log.Warn("failed to attach control", logger.Error(err))
		}
	}
	w.aff.EnsureMenuItem(w.doc)
	w.aff.ReflectAll(w.doc)
}

func (w *Watcher) handleClick(ctx context.Context, target dom.Element) {
	if w.aff.IsMenuItem(target) {
		if err := w.opener.OpenListView(); err != nil {
			w.log.Error("failed to open bookmarks view", logger.Error(err))
		}
		return
	}
	w.coord.OnToggle(ctx, target)
}
