// Package domtest provides an in-memory dom.Document so the whole engine
// runs deterministically in tests, without a browser. Host-page behavior
// (menus opening, fields populating) is simulated through OnClick hooks.
package domtest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"skymark/internal/dom"
)

// Node is one element of the fake document.
type Node struct {
	TagName string

	// OnClick simulates the host page's own handler for this element.
	OnClick func()

	attrs    map[string]string
	text     string
	value    string
	children []*Node
	parent   *Node
}

// NewNode builds an element with the given attributes.
func NewNode(tag string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{TagName: tag, attrs: map[string]string{}}
	for k, v := range attrs {
		n.attrs[k] = v
	}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// Append adds a child element.
func (n *Node) Append(c *Node) *Node {
	c.parent = n
	n.children = append(n.children, c)
	return n
}

// SetText sets the node's own text content.
func (n *Node) SetText(s string) *Node { n.text = s; return n }

// SetValue sets the input value.
func (n *Node) SetValue(s string) *Node { n.value = s; return n }

// Children returns the node's element children.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the parent element, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// StyleValue reads one property out of the style attribute.
func (n *Node) StyleValue(property string) string {
	style := n.attrs["style"]
	for _, decl := range strings.Split(style, ";") {
		name, val, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) == property {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// dom.Element implementation

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetAttr(name, value string) error {
	n.attrs[name] = value
	return nil
}

func (n *Node) Text() string {
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	b.WriteString(n.text)
	for _, c := range n.children {
		c.collectText(b)
	}
}

func (n *Node) InputValue() (string, bool) {
	tag := strings.ToLower(n.TagName)
	if tag != "input" && tag != "textarea" {
		return "", false
	}
	return n.value, true
}

func (n *Node) Query(selector string) (dom.Element, bool) {
	for _, c := range n.children {
		if found, ok := c.query(selector); ok {
			return found, true
		}
	}
	return nil, false
}

func (n *Node) query(selector string) (*Node, bool) {
	if Matches(n, selector) {
		return n, true
	}
	for _, c := range n.children {
		if found, ok := c.query(selector); ok {
			return found, true
		}
	}
	return nil, false
}

func (n *Node) QueryAll(selector string) []dom.Element {
	var out []dom.Element
	for _, c := range n.children {
		c.queryAll(selector, &out)
	}
	return out
}

func (n *Node) queryAll(selector string, out *[]dom.Element) {
	if Matches(n, selector) {
		*out = append(*out, n)
	}
	for _, c := range n.children {
		c.queryAll(selector, out)
	}
}

func (n *Node) Closest(selector string) (dom.Element, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if Matches(cur, selector) {
			return cur, true
		}
	}
	return nil, false
}

func (n *Node) Click() error {
	if n.OnClick != nil {
		n.OnClick()
	}
	return nil
}

func (n *Node) InsertMarkup(markup, beforeSelector string) (dom.Element, error) {
	child, err := ParseNode(markup)
	if err != nil {
		return nil, err
	}
	child.parent = n

	idx := len(n.children)
	if beforeSelector != "" {
		for i, c := range n.children {
			if Matches(c, beforeSelector) {
				idx = i
				break
			}
		}
	}
	n.children = append(n.children[:idx], append([]*Node{child}, n.children[idx:]...)...)
	return child, nil
}

func (n *Node) SetStyle(property, value string) error {
	style := n.attrs["style"]
	var decls []string
	replaced := false
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(name) == property {
			decls = append(decls, property+": "+value)
			replaced = true
			continue
		}
		decls = append(decls, decl)
	}
	if !replaced {
		decls = append(decls, property+": "+value)
	}
	n.attrs["style"] = strings.Join(decls, "; ")
	return nil
}

func (n *Node) Remove() error {
	p := n.parent
	if p == nil {
		return nil
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	return nil
}

// ParseNode parses markup into a single element.
func ParseNode(markup string) (*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(strings.TrimSpace(markup)), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	for _, hn := range nodes {
		if hn.Type == html.ElementNode {
			return fromHTML(hn), nil
		}
	}
	return nil, fmt.Errorf("markup contains no element: %q", markup)
}

func fromHTML(hn *html.Node) *Node {
	n := NewNode(hn.Data, nil)
	for _, a := range hn.Attr {
		n.attrs[a.Key] = a.Val
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			n.Append(fromHTML(c))
		case html.TextNode:
			n.text += c.Data
		}
	}
	return n
}

// Doc is the in-memory document. It doubles as the event source: tests
// emit subtree changes, clicks, and window messages explicitly.
type Doc struct {
	body   *Node
	events chan dom.Event
}

// NewDoc wraps a body element into a document.
func NewDoc(body *Node) *Doc {
	return &Doc{body: body, events: make(chan dom.Event, 64)}
}

func (d *Doc) Body() (dom.Element, bool) { return d.body, true }

// BodyNode returns the underlying body for direct test manipulation.
func (d *Doc) BodyNode() *Node { return d.body }

func (d *Doc) Query(selector string) (dom.Element, bool) {
	if found, ok := d.body.query(selector); ok {
		return found, true
	}
	return nil, false
}

func (d *Doc) QueryAll(selector string) []dom.Element {
	var out []dom.Element
	d.body.queryAll(selector, &out)
	return out
}

func (d *Doc) Events(ctx context.Context) (<-chan dom.Event, error) {
	return d.events, nil
}

// EmitChange delivers a coalesced subtree-change notification.
func (d *Doc) EmitChange() { d.events <- dom.Event{SubtreeChanged: true} }

// EmitClick delivers a delegated click with the given live target.
func (d *Doc) EmitClick(target dom.Element) { d.events <- dom.Event{ClickTarget: target} }

// EmitMessage delivers a window message.
func (d *Doc) EmitMessage(msg dom.Message) { d.events <- dom.Event{Message: &msg} }
