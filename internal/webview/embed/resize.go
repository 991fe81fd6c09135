package embed

import (
	"sync"

	"skymark/internal/dom"
)

// Dispatcher validates embed sizing messages. Widgets post their rendered
// height to the parent window; only messages from the embed origin that
// name a frame this process actually rendered are honored.
type Dispatcher struct {
	origin string

	mu     sync.Mutex
	frames map[string]bool
}

// NewDispatcher creates a dispatcher trusting the given embed origin.
func NewDispatcher(origin string) *Dispatcher {
	return &Dispatcher{origin: origin, frames: make(map[string]bool)}
}

// Reset forgets all registered frames, called when the listing re-renders.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = make(map[string]bool)
}

// Register records a frame id rendered into the current listing.
func (d *Dispatcher) Register(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames[id] = true
}

// Resize checks one window message. It returns the selector of the frame
// to size and the height to apply, or ok=false for anything not passing
// the origin and id checks.
func (d *Dispatcher) Resize(msg dom.Message) (selector string, height int, ok bool) {
	if msg.Origin != d.origin {
		return "", 0, false
	}
	if msg.ID == "" || msg.Height <= 0 {
		return "", 0, false
	}
	d.mu.Lock()
	known := d.frames[msg.ID]
	d.mu.Unlock()
	if !known {
		return "", 0, false
	}
	return FrameSelector(msg.ID), msg.Height, true
}
