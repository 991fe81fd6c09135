package engine

import (
	"errors"
	"fmt"
	"strings"

	"skymark/internal/dom"
	"skymark/internal/domain"
	"skymark/internal/profile"
)

// ErrUnresolvable is returned when a rendered post is missing one of the
// attributes its identity is derived from. Callers treat it as a
// non-fatal skip: the post may resolve after its next re-render.
var ErrUnresolvable = errors.New("post identity unresolvable")

// Resolver derives a stable bookmark key and canonical URL from the
// attributes a post carries at detection time. It holds no state and
// never retains the element: the same rendered post always resolves to
// the same key within a page load.
type Resolver struct {
	scheme domain.KeyScheme
	prof   profile.Profile
}

// NewResolver creates a resolver using the given key scheme.
func NewResolver(scheme domain.KeyScheme, prof profile.Profile) *Resolver {
	return &Resolver{scheme: scheme, prof: prof}
}

// Resolve returns the bookmark key and canonical URL for a post.
// Both the author handle and the post discriminator are required; if
// either is absent the post is unresolvable.
func (r *Resolver) Resolve(item dom.Element) (key, url string, err error) {
	testid, ok := item.Attr("data-testid")
	if !ok || !strings.HasPrefix(testid, r.prof.ItemTestIDPrefix) {
		return "", "", fmt.Errorf("%w: missing item discriminator", ErrUnresolvable)
	}
	rkey := testid[len(r.prof.ItemTestIDPrefix):]
	if rkey == "" {
		return "", "", fmt.Errorf("%w: empty item discriminator", ErrUnresolvable)
	}

	link, ok := item.Query(r.prof.ProfileLink)
	if !ok {
		return "", "", fmt.Errorf("%w: missing author link", ErrUnresolvable)
	}
	href, ok := link.Attr("href")
	if !ok {
		return "", "", fmt.Errorf("%w: author link has no href", ErrUnresolvable)
	}
	handle := href[strings.LastIndex(href, "/")+1:]
	if handle == "" {
		return "", "", fmt.Errorf("%w: empty author handle", ErrUnresolvable)
	}

	return r.scheme.Key(handle, rkey), domain.CanonicalURL(handle, rkey), nil
}
