package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymark/internal/dom"
)

const sampleMarkup = `<blockquote class="bluesky-embed" data-bluesky-uri="at://did:plc:abc123/app.bsky.feed.post/3kabc42" data-bluesky-cid="bafyrei"><p lang="en">hello</p></blockquote><script async src="https://embed.bsky.app/static/embed.js" charset="utf-8"></script>`

func TestExtractURI(t *testing.T) {
	uri, ok := ExtractURI(sampleMarkup)
	require.True(t, ok)
	assert.Equal(t, "at://did:plc:abc123/app.bsky.feed.post/3kabc42", uri)
}

func TestExtractURIRejectsPlainMarkup(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"no uri attribute", `<blockquote class="bluesky-embed"><p>hi</p></blockquote>`},
		{"non-at uri", `<blockquote data-bluesky-uri="https://example.com/x"></blockquote>`},
		{"empty", ""},
		{"text only", "just some text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractURI(tt.markup)
			assert.False(t, ok)
		})
	}
}

func TestIframeSrc(t *testing.T) {
	src := IframeSrc(
		"https://embed.bsky.app",
		"at://did:plc:abc123/app.bsky.feed.post/3kabc42",
		"embed-0",
		"http://127.0.0.1:8473/",
	)
	// The ref_url is escaped once itself and once as a query value; the
	// widget decodes the extra layer.
	assert.Equal(t,
		"https://embed.bsky.app/embed/did:plc:abc123/app.bsky.feed.post/3kabc42?id=embed-0&ref_url=http%253A%252F%252F127.0.0.1%253A8473%252F",
		src)
}

func TestIframeSrcSkipsNonHTTPRef(t *testing.T) {
	src := IframeSrc(
		"https://embed.bsky.app",
		"at://did:plc:abc123/app.bsky.feed.post/3kabc42",
		"embed-1",
		"chrome-extension://abc/page.html",
	)
	assert.Equal(t,
		"https://embed.bsky.app/embed/did:plc:abc123/app.bsky.feed.post/3kabc42?id=embed-1",
		src)
}

func TestDispatcherAppliesRegisteredFrame(t *testing.T) {
	d := NewDispatcher("https://embed.bsky.app")
	d.Register("embed-3")

	selector, height, ok := d.Resize(dom.Message{
		Origin: "https://embed.bsky.app",
		ID:     "embed-3",
		Height: 450,
	})
	require.True(t, ok)
	assert.Equal(t, `[data-bluesky-id="embed-3"]`, selector)
	assert.Equal(t, 450, height)
}

func TestDispatcherFiltersMessages(t *testing.T) {
	d := NewDispatcher("https://embed.bsky.app")
	d.Register("embed-3")

	tests := []struct {
		name string
		msg  dom.Message
	}{
		{"wrong origin", dom.Message{Origin: "https://evil.example", ID: "embed-3", Height: 450}},
		{"missing id", dom.Message{Origin: "https://embed.bsky.app", Height: 450}},
		{"unknown id", dom.Message{Origin: "https://embed.bsky.app", ID: "embed-9", Height: 450}},
		{"non-positive height", dom.Message{Origin: "https://embed.bsky.app", ID: "embed-3", Height: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := d.Resize(tt.msg)
			assert.False(t, ok)
		})
	}
}

func TestDispatcherResetForgetsFrames(t *testing.T) {
	d := NewDispatcher("https://embed.bsky.app")
	d.Register("embed-0")
	d.Reset()

	_, _, ok := d.Resize(dom.Message{Origin: "https://embed.bsky.app", ID: "embed-0", Height: 100})
	assert.False(t, ok)
}
