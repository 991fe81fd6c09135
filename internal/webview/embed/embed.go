// Package embed turns stored raw embed markup into the iframe form the
// listing view serves, and validates the sizing messages those iframes
// post back.
package embed

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// uriAttr carries the AT URI inside the blockquote markup the host page
// hands out, ex:
// <blockquote data-bluesky-uri="at://did:plc:x/app.bsky.feed.post/3kabc">.
const uriAttr = "data-bluesky-uri"

// frameAttr ties a rendered iframe to the id echoed in sizing messages.
const frameAttr = "data-bluesky-id"

const atPrefix = "at://"

// ExtractURI pulls the AT URI out of raw embed markup. Returns false when
// the markup has no element carrying one, which is how unstructured or
// foreign payloads render as plain markup instead of an iframe.
func ExtractURI(markup string) (string, bool) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", false
	}
	for _, n := range nodes {
		if uri, ok := findURI(n); ok {
			return uri, true
		}
	}
	return "", false
}

func findURI(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == uriAttr && strings.HasPrefix(a.Val, atPrefix) {
				return a.Val, true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if uri, ok := findURI(c); ok {
			return uri, true
		}
	}
	return "", false
}

// FrameID returns the container id for the nth embed on a page.
func FrameID(index int) string {
	return fmt.Sprintf("embed-%d", index)
}

// FrameSelector returns the selector locating the iframe a sizing message
// refers to.
func FrameSelector(id string) string {
	return fmt.Sprintf(`[%s=%q]`, frameAttr, id)
}

// IframeSrc builds the widget URL for an AT URI. refURL, when it is an
// http(s) URL, rides along pre-escaped; the widget expects to decode it
// one extra time.
func IframeSrc(embedHost, uri, id, refURL string) string {
	params := url.Values{}
	params.Set("id", id)
	if strings.HasPrefix(refURL, "http") {
		params.Set("ref_url", url.QueryEscape(refURL))
	}
	return fmt.Sprintf("%s/embed/%s?%s", embedHost, strings.TrimPrefix(uri, atPrefix), params.Encode())
}
