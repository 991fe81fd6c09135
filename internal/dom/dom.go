// Package dom abstracts the live, externally rendered document the engine
// works against. The production implementation drives a real page over the
// DevTools protocol (internal/browser); tests run the same engine code
// against an in-memory tree (internal/dom/domtest).
//
// Nothing in this package owns the document: elements are live views that
// the host page may destroy and rebuild at any time. Callers keep derived
// data (keys, URLs), never long-lived element references.
package dom

import "context"

// Element is a live view into one element of the document.
type Element interface {
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	SetAttr(name, value string) error
	// Text returns the concatenated text content of the subtree.
	Text() string
	// InputValue returns the current value of an input element.
	InputValue() (string, bool)
	// Query returns the first descendant matching selector, without
	// waiting for one to appear.
	Query(selector string) (Element, bool)
	QueryAll(selector string) []Element
	// Closest returns the nearest ancestor (self included) matching
	// selector.
	Closest(selector string) (Element, bool)
	Click() error
	// InsertMarkup parses markup as a single element and inserts it as a
	// child of this element, in front of the first child matching
	// beforeSelector (":last-child" targets the last slot). An empty
	// beforeSelector, or no matching child, appends.
	InsertMarkup(markup, beforeSelector string) (Element, error)
	SetStyle(property, value string) error
	Remove() error
}

// Document is the page-level query surface.
type Document interface {
	Body() (Element, bool)
	Query(selector string) (Element, bool)
	QueryAll(selector string) []Element
}

// Message is a cross-origin postMessage received by the page, as used by
// the embed sizing handshake.
type Message struct {
	Origin string
	ID     string
	Height int
}

// Event is one notification from the live page. Exactly one field is set.
type Event struct {
	// SubtreeChanged reports a batch of nodes added somewhere under body.
	// Batches are coalesced; receivers rescan rather than diff.
	SubtreeChanged bool

	// ClickTarget is the live target of a delegated click on one of the
	// injected controls. Handlers must re-resolve the owning control from
	// the target: the control attached earlier may have been rebuilt by
	// the host page since.
	ClickTarget Element

	// Message is a window message delivered to the page.
	Message *Message
}

// Source delivers page events until ctx is done.
type Source interface {
	Events(ctx context.Context) (<-chan Event, error)
}
