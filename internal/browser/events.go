package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skymark/internal/dom"
	"skymark/internal/logger"
)

// clickAttr tags the control a delegated click landed in, so the live
// target can be re-queried from Go after the poll round-trip.
const clickAttr = "data-skymark-click"

// hookJS installs the page-side observation layer once per document:
// a coalescing MutationObserver, capture-phase click delegation on the
// configured selector, and a window message collector. Re-running it is a
// no-op, so it is safe to apply on every poll; after a navigation the
// fresh document simply gets hooked again.
const hookJS = `(clickSel, clickAttr) => {
	const w = window;
	if (w.__skymarkHooked) return true;
	w.__skymarkHooked = true;
	w.__skymarkDirty = false;
	w.__skymarkClicks = [];
	w.__skymarkMessages = [];

	const obs = new MutationObserver((mutations) => {
		for (const m of mutations) {
			if (m.type === 'childList' && m.addedNodes.length > 0) {
				w.__skymarkDirty = true;
				return;
			}
		}
	});
	obs.observe(document.body, { childList: true, subtree: true });

	document.addEventListener('click', (ev) => {
		try {
			const t = ev.target instanceof Element ? ev.target : null;
			if (!t) return;
			const hit = t.closest(clickSel);
			if (!hit) return;
			const id = 'c' + Date.now() + '-' + Math.floor(Math.random() * 1e9);
			hit.setAttribute(clickAttr, id);
			w.__skymarkClicks.push(id);
		} catch (e) {}
	}, true);

	window.addEventListener('message', (ev) => {
		try {
			const d = ev.data || {};
			if (typeof d.height !== 'number') return;
			w.__skymarkMessages.push({
				origin: ev.origin,
				id: String(d.id || ''),
				height: Math.ceil(d.height),
			});
		} catch (e) {}
	});
	return true;
}`

const drainJS = `() => {
	const w = window;
	const out = {
		dirty: !!w.__skymarkDirty,
		clicks: w.__skymarkClicks || [],
		messages: w.__skymarkMessages || [],
	};
	w.__skymarkDirty = false;
	w.__skymarkClicks = [];
	w.__skymarkMessages = [];
	return out;
}`

type drainResult struct {
	Dirty    bool     `json:"dirty"`
	Clicks   []string `json:"clicks"`
	Messages []struct {
		Origin string `json:"origin"`
		ID     string `json:"id"`
		Height int    `json:"height"`
	} `json:"messages"`
}

// Events polls the page for coalesced mutations, delegated clicks, and
// window messages until ctx is done. The channel closes on exit; a dead
// CDP connection surfaces as closure, and the caller decides whether to
// re-initialize.
func (p *Page) Events(ctx context.Context) (<-chan dom.Event, error) {
	if err := p.hook(); err != nil {
		return nil, err
	}

	ch := make(chan dom.Event, 16)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()
		failures := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.hook(); err != nil {
					failures++
					if failures >= 3 {
						p.log.Error("page unreachable, stopping event stream", logger.Error(err))
						return
					}
					continue
				}
				failures = 0
				p.drain(ctx, ch)
			}
		}
	}()
	return ch, nil
}

func (p *Page) hook() error {
	if _, err := p.page.Eval(hookJS, p.clickSelector, clickAttr); err != nil {
		return fmt.Errorf("failed to install page hooks: %w", err)
	}
	return nil
}

func (p *Page) drain(ctx context.Context, ch chan<- dom.Event) {
	res, err := p.page.Eval(drainJS)
	if err != nil {
		p.log.Debug("failed to drain page events", logger.Error(err))
		return
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return
	}
	var out drainResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return
	}

	if out.Dirty {
		p.send(ctx, ch, dom.Event{SubtreeChanged: true})
	}
	for _, id := range out.Clicks {
		target, ok := p.Query(fmt.Sprintf(`[%s=%q]`, clickAttr, id))
		if !ok {
			// The host page rebuilt the control between click and poll.
			continue
		}
		_, _ = target.(*element).el.Eval(`(a) => this.removeAttribute(a)`, clickAttr)
		p.send(ctx, ch, dom.Event{ClickTarget: target})
	}
	for _, m := range out.Messages {
		p.send(ctx, ch, dom.Event{Message: &dom.Message{
			Origin: m.Origin,
			ID:     m.ID,
			Height: m.Height,
		}})
	}
}

func (p *Page) send(ctx context.Context, ch chan<- dom.Event, ev dom.Event) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
