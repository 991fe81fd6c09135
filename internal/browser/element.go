package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"skymark/internal/dom"
)

// insertAttr tags freshly inserted markup so the remote node can be
// identified after the insertion round-trip.
const insertAttr = "data-skymark-inserted"

// element adapts a rod remote element to dom.Element. All operations are
// single CDP round-trips with no waiting: the host page may remove the
// node at any moment and callers handle absence, not staleness.
type element struct {
	el *rod.Element
}

func wrapElement(el *rod.Element) dom.Element {
	return &element{el: el}
}

func (e *element) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *element) SetAttr(name, value string) error {
	_, err := e.el.Eval(`(n, v) => this.setAttribute(n, v)`, name, value)
	if err != nil {
		return fmt.Errorf("failed to set attribute %s: %w", name, err)
	}
	return nil
}

func (e *element) Text() string {
	text, err := e.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (e *element) InputValue() (string, bool) {
	v, err := e.el.Property("value")
	if err != nil || v.Nil() {
		return "", false
	}
	return v.Str(), true
}

func (e *element) Query(selector string) (dom.Element, bool) {
	has, el, err := e.el.Has(selector)
	if err != nil || !has {
		return nil, false
	}
	return wrapElement(el), true
}

func (e *element) QueryAll(selector string) []dom.Element {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, wrapElement(el))
	}
	return out
}

func (e *element) Closest(selector string) (dom.Element, bool) {
	el, err := e.el.ElementByJS(rod.Eval(`(s) => this.closest(s)`, selector))
	if err != nil {
		return nil, false
	}
	return wrapElement(el), true
}

func (e *element) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click element: %w", err)
	}
	return nil
}

func (e *element) InsertMarkup(markup, beforeSelector string) (dom.Element, error) {
	marker := uuid.NewString()
	_, err := e.el.Eval(`(markup, before, attr, marker) => {
		const tpl = document.createElement('template');
		tpl.innerHTML = markup;
		const node = tpl.content.firstElementChild;
		if (!node) return false;
		node.setAttribute(attr, marker);
		let ref = null;
		if (before === ':last-child') {
			ref = this.lastElementChild;
		} else if (before) {
			ref = this.querySelector(before);
		}
		if (ref) {
			this.insertBefore(node, ref);
		} else {
			this.appendChild(node);
		}
		return true;
	}`, markup, beforeSelector, insertAttr, marker)
	if err != nil {
		return nil, fmt.Errorf("failed to insert markup: %w", err)
	}

	inserted, ok := e.Query(fmt.Sprintf(`[%s=%q]`, insertAttr, marker))
	if !ok {
		return nil, fmt.Errorf("inserted markup not found after insertion")
	}
	return inserted, nil
}

func (e *element) SetStyle(property, value string) error {
	_, err := e.el.Eval(`(p, v) => this.style.setProperty(p, v)`, property, value)
	if err != nil {
		return fmt.Errorf("failed to set style %s: %w", property, err)
	}
	return nil
}

func (e *element) Remove() error {
	if _, err := e.el.Eval(`() => this.remove()`); err != nil {
		return fmt.Errorf("failed to remove element: %w", err)
	}
	return nil
}
