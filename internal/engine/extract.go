package engine

import (
	"context"
	"sync"
	"time"

	"skymark/internal/dom"
	"skymark/internal/logger"
	"skymark/internal/profile"
)

// State names one step of the extraction sequence. The host page owns
// every effect in the sequence (the menu opening, the field populating),
// so transitions out of the waiting states happen on fixed settle delays,
// not completion signals.
type State int

const (
	StateIdle State = iota
	StateOptionsOpening
	StateEmbedOptionSelecting
	StateWaitingForEmbedField
	StateExtracted
	StateUnavailable
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOptionsOpening:
		return "options_opening"
	case StateEmbedOptionSelecting:
		return "embed_option_selecting"
	case StateWaitingForEmbedField:
		return "waiting_for_embed_field"
	case StateExtracted:
		return "extracted"
	case StateUnavailable:
		return "unavailable"
	case StateTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Unavailable reasons. Failure is always a typed outcome with a reason,
// never an unexplained empty result.
const (
	ReasonOptionsMissing  = "options control missing"
	ReasonEmbedNotOffered = "embed not offered for this item"
	ReasonEmbedFieldEmpty = "embed field missing or empty"
)

// Outcome is the terminal result of one extraction run.
type Outcome struct {
	State  State  // StateExtracted, StateUnavailable, or StateTimedOut
	Markup string // embed markup, set when extracted
	URL    string // canonical post URL, set when extracted
	Reason string // set when unavailable
}

// Extracted reports success.
func (o Outcome) Extracted() bool { return o.State == StateExtracted }

// Pipeline drives the host page's own share/embed dialog to obtain a
// durable embed representation of a post. Both simulated interactions
// target the page's singleton dialog surface, so at most one extraction
// runs at a time system-wide.
type Pipeline struct {
	doc  dom.Document
	prof profile.Profile
	log  logger.Logger

	mu sync.Mutex

	// sleep and detectField are injectable so tests can simulate fast,
	// slow, and failing host pages without real timers.
	sleep       func(ctx context.Context, d time.Duration) error
	detectField func(doc dom.Document) (dom.Element, bool)
}

// NewPipeline creates an extraction pipeline over the given document.
func NewPipeline(doc dom.Document, prof profile.Profile, log logger.Logger) *Pipeline {
	p := &Pipeline{doc: doc, prof: prof, log: log}
	p.sleep = func(ctx context.Context, d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
	p.detectField = func(doc dom.Document) (dom.Element, bool) {
		return doc.Query(prof.EmbedInput)
	}
	return p
}

// Run executes the sequence against one post and returns its terminal
// outcome. Every terminal state, success included, ends with best-effort
// cleanup of any transient dialog the sequence opened.
func (p *Pipeline) Run(ctx context.Context, item dom.Element, canonicalURL string) Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := StateIdle

	options, ok := item.Query(p.prof.OptionsButton)
	if !ok {
		// Terminal before anything opened; nothing to clean up.
		return Outcome{State: StateUnavailable, Reason: ReasonOptionsMissing}
	}

	state = p.transition(state, StateOptionsOpening)
	if err := options.Click(); err != nil {
		p.log.Warn("failed to activate options control", logger.Error(err))
		return Outcome{State: StateUnavailable, Reason: ReasonOptionsMissing}
	}

	if err := p.sleep(ctx, p.prof.MenuSettle()); err != nil {
		return p.finish(Outcome{State: StateTimedOut})
	}

	entry, ok := p.doc.Query(p.prof.EmbedMenuEntry)
	if !ok {
		return p.finish(Outcome{State: StateUnavailable, Reason: ReasonEmbedNotOffered})
	}

	state = p.transition(state, StateEmbedOptionSelecting)
	if err := entry.Click(); err != nil {
		p.log.Warn("failed to activate embed entry", logger.Error(err))
		return p.finish(Outcome{State: StateUnavailable, Reason: ReasonEmbedNotOffered})
	}

	state = p.transition(state, StateWaitingForEmbedField)
	if err := p.sleep(ctx, p.prof.FieldSettle()); err != nil {
		return p.finish(Outcome{State: StateTimedOut})
	}

	field, ok := p.detectField(p.doc)
	if !ok {
		return p.finish(Outcome{State: StateUnavailable, Reason: ReasonEmbedFieldEmpty})
	}
	markup, ok := field.InputValue()
	if !ok || markup == "" {
		return p.finish(Outcome{State: StateUnavailable, Reason: ReasonEmbedFieldEmpty})
	}

	p.transition(state, StateExtracted)
	return p.finish(Outcome{State: StateExtracted, Markup: markup, URL: canonicalURL})
}

func (p *Pipeline) transition(from, to State) State {
	p.log.Debug("extraction transition",
		logger.String("from", from.String()),
		logger.String("to", to.String()))
	return to
}

// finish closes any transient dialog left open by the sequence so
// repeated runs do not accumulate dialogs. Non-fatal if nothing is found
// to close.
func (p *Pipeline) finish(o Outcome) Outcome {
	for _, sel := range p.prof.CloseButtons {
		if btn, ok := p.doc.Query(sel); ok {
			if err := btn.Click(); err == nil {
				return o
			}
		}
	}
	if len(p.doc.QueryAll(p.prof.Dialogs)) > 0 {
		// No close button found; dismiss by clicking outside.
		if body, ok := p.doc.Body(); ok {
			_ = body.Click()
		}
	}
	return o
}
