package browser

import (
	"context"
	"fmt"

	"skymark/internal/dom"
	"skymark/internal/logger"
)

// Resizer decides whether a window message is a trusted embed sizing
// report and, if so, which container it sizes.
type Resizer interface {
	Resize(msg dom.Message) (selector string, height int, ok bool)
}

// ListView opens the bookmark listing in a browser tab and relays the
// embed widgets' sizing messages back onto their iframes. The listing
// document itself is served by the local web view; the relay is what
// replaces the page-side script a browser extension would have injected.
type ListView struct {
	ctx     context.Context
	session *Session
	url     string
	resizer Resizer
	log     logger.Logger
}

// NewListView creates an opener for the listing view. ctx bounds the
// lifetime of relays spawned for opened tabs.
func NewListView(ctx context.Context, session *Session, url string, resizer Resizer, log logger.Logger) *ListView {
	return &ListView{ctx: ctx, session: session, url: url, resizer: resizer, log: log}
}

// OpenListView opens a fresh tab on the listing view and starts its
// message relay. Fire-and-forget per the engine contract.
func (v *ListView) OpenListView() error {
	page, err := v.session.OpenTab(v.url)
	if err != nil {
		return fmt.Errorf("failed to open listing view: %w", err)
	}
	// No injected controls in our own document, so the click delegation
	// selector matches nothing; the relay only consumes messages.
	wrapped := NewPage(page.Context(v.ctx), ".skymark-no-delegation", v.log)
	go v.relay(wrapped)
	return nil
}

func (v *ListView) relay(page *Page) {
	events, err := page.Events(v.ctx)
	if err != nil {
		v.log.Warn("failed to observe listing view", logger.Error(err))
		return
	}
	for ev := range events {
		if ev.Message == nil {
			continue
		}
		selector, height, ok := v.resizer.Resize(*ev.Message)
		if !ok {
			continue
		}
		frame, found := page.Query(selector)
		if !found {
			continue
		}
		if err := frame.SetStyle("height", fmt.Sprintf("%dpx", height)); err != nil {
			v.log.Debug("failed to size embed frame", logger.Error(err))
		}
	}
}
