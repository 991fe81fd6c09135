package browser

import (
	"time"

	"github.com/go-rod/rod"

	"skymark/internal/dom"
	"skymark/internal/logger"
)

// defaultPollInterval is how often the injected event buffer is drained.
const defaultPollInterval = 500 * time.Millisecond

// Page adapts one rod page to dom.Document and dom.Source.
type Page struct {
	page *rod.Page
	log  logger.Logger

	// clickSelector is the delegation filter: only clicks landing inside
	// an element matching it are surfaced as events.
	clickSelector string
	pollInterval  time.Duration
}

// NewPage wraps a connected rod page. clickSelector filters the delegated
// click stream to the injected controls.
func NewPage(page *rod.Page, clickSelector string, log logger.Logger) *Page {
	return &Page{
		page:          page,
		log:           log,
		clickSelector: clickSelector,
		pollInterval:  defaultPollInterval,
	}
}

func (p *Page) Body() (dom.Element, bool) {
	return p.Query("body")
}

func (p *Page) Query(selector string) (dom.Element, bool) {
	has, el, err := p.page.Has(selector)
	if err != nil || !has {
		return nil, false
	}
	return wrapElement(el), true
}

func (p *Page) QueryAll(selector string) []dom.Element {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, wrapElement(el))
	}
	return out
}
