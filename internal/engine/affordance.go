package engine

import (
	"fmt"
	"html"

	"skymark/internal/dom"
	"skymark/internal/logger"
	"skymark/internal/profile"
)

const (
	// ControlClass marks the injected bookmark toggle. Its presence
	// inside a post is the decoration marker: attachment is a no-op
	// while a control with this class is still in the post's subtree.
	ControlClass = "skymark-bookmark-btn"

	// MenuItemClass marks the injected sidebar entry that opens the
	// bookmarks listing view.
	MenuItemClass = "skymark-bookmarks-nav"

	// KeyAttr associates a control with its post's resolved key.
	KeyAttr = "data-skymark-key"

	colorBookmarked = "rgb(32, 139, 254)"
	colorDefault    = "rgb(120, 142, 165)"
)

// ClickTargets is the selector the click delegation layer watches.
// Delegation lives at the document root: controls are destroyed and
// recreated by host re-renders, so handlers re-resolve from the live
// event target instead of holding references.
const ClickTargets = "." + ControlClass + ", ." + MenuItemClass

const bookmarkSVG = `<svg fill="none" width="22" viewBox="0 0 24 24" height="22" style="color: ` + colorDefault + `; pointer-events: none;"><path fill="currentColor" d="M5 5a2 2 0 012-2h10a2 2 0 012 2v16l-7-3.5L5 21V5z"></path></svg>`

// Affordance inserts toggle controls into detected posts and keeps their
// visual state aligned with the bookmark cache.
type Affordance struct {
	prof     profile.Profile
	resolver *Resolver
	cache    *Cache
	log      logger.Logger
}

// NewAffordance creates an affordance manager.
func NewAffordance(prof profile.Profile, resolver *Resolver, cache *Cache, log logger.Logger) *Affordance {
	return &Affordance{prof: prof, resolver: resolver, cache: cache, log: log}
}

// Attach decorates one post with a toggle control. It is idempotent: a
// post already carrying a control is left alone. Posts whose action row
// or identity attributes are missing are skipped silently; they are
// retried on their next structural mutation.
func (a *Affordance) Attach(item dom.Element) error {
	if _, decorated := item.Query("." + ControlClass); decorated {
		return nil
	}
	if _, ok := item.Query(a.prof.ShareButton); !ok {
		// Action bar not rendered yet.
		return nil
	}

	key, _, err := a.resolver.Resolve(item)
	if err != nil {
		a.log.Debug("skipping undecoratable post", logger.Error(err))
		return nil
	}

	row, ok := item.Query(a.prof.ActionRow)
	if !ok {
		a.log.Debug("post has no action row", logger.String("key", key))
		return nil
	}

	container, err := row.InsertMarkup(controlMarkup(key), ":last-child")
	if err != nil {
		return fmt.Errorf("failed to insert bookmark control: %w", err)
	}

	control, ok := container.Query("." + ControlClass)
	if !ok {
		return fmt.Errorf("inserted control markup has no %s element", ControlClass)
	}
	return a.Reflect(control, a.cache.IsBookmarked(key))
}

func controlMarkup(key string) string {
	return fmt.Sprintf(`<div class="css-175oi2r" style="align-items: center;">`+
		`<div class="%s css-175oi2r r-1loqt21 r-1otgn73" aria-label="Bookmark" role="button" tabindex="0" %s="%s" style="gap: 4px; border-radius: 999px; flex-direction: row; justify-content: center; align-items: center; overflow: hidden; padding: 5px;">%s</div>`+
		`</div>`,
		ControlClass, KeyAttr, html.EscapeString(key), bookmarkSVG)
}

// Reflect applies the bookmarked state to a control's visual. It is a
// pure state-to-style mapping, safe to call repeatedly.
func (a *Affordance) Reflect(control dom.Element, bookmarked bool) error {
	svg, ok := control.Query("svg")
	if !ok {
		return fmt.Errorf("control has no icon to reflect state on")
	}
	color := colorDefault
	if bookmarked {
		color = colorBookmarked
	}
	return svg.SetStyle("color", color)
}

// ReflectAll re-applies the cached state to every control currently in
// the document. Run after cache refreshes so writes from other contexts
// become visible.
func (a *Affordance) ReflectAll(doc dom.Document) {
	for _, control := range doc.QueryAll("." + ControlClass) {
		key, ok := control.Attr(KeyAttr)
		if !ok {
			continue
		}
		if err := a.Reflect(control, a.cache.IsBookmarked(key)); err != nil {
			a.log.Debug("failed to reflect control", logger.String("key", key), logger.Error(err))
		}
	}
}

// ResolveControl walks up from a live click target to the owning toggle
// control.
func (a *Affordance) ResolveControl(target dom.Element) (dom.Element, bool) {
	return target.Closest("." + ControlClass)
}

// IsMenuItem reports whether a click target belongs to the injected
// bookmarks menu item.
func (a *Affordance) IsMenuItem(target dom.Element) bool {
	_, ok := target.Closest("." + MenuItemClass)
	return ok
}

// ItemForControl returns the post a control is attached to.
func (a *Affordance) ItemForControl(control dom.Element) (dom.Element, bool) {
	return control.Closest(a.prof.ItemSelector)
}

// ControlKey returns the key a control was attached under.
func (a *Affordance) ControlKey(control dom.Element) (string, bool) {
	return control.Attr(KeyAttr)
}

// EnsureMenuItem inserts the sidebar "Bookmarks" entry once, in front of
// the settings link when present.
func (a *Affordance) EnsureMenuItem(doc dom.Document) {
	if _, ok := doc.Query("." + MenuItemClass); ok {
		return
	}
	nav, ok := doc.Query(a.prof.SidebarNav)
	if !ok {
		return
	}
	markup := fmt.Sprintf(`<a class="%s css-175oi2r r-1loqt21 r-1otgn73" href="#" aria-label="Bookmarks" tabindex="0" style="flex-direction: row; align-items: center; padding: 12px; border-radius: 8px; gap: 8px;">%s<div dir="auto">Bookmarks</div></a>`,
		MenuItemClass, bookmarkSVG)
	if _, err := nav.InsertMarkup(markup, a.prof.SettingsLink); err != nil {
		a.log.Debug("failed to insert bookmarks menu item", logger.Error(err))
	}
}
