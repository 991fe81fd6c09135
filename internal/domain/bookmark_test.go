package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyScheme(t *testing.T) {
	tests := []struct {
		name     string
		scheme   KeyScheme
		handle   string
		rkey     string
		expected string
	}{
		{
			name:     "handle-rkey scheme",
			scheme:   SchemeHandleRkey,
			handle:   "alice.bsky.social",
			rkey:     "3kabc42",
			expected: "alice.bsky.social-3kabc42",
		},
		{
			name:     "url scheme",
			scheme:   SchemeCanonicalURL,
			handle:   "alice.bsky.social",
			rkey:     "3kabc42",
			expected: "https://bsky.app/profile/alice.bsky.social/post/3kabc42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scheme.Key(tt.handle, tt.rkey))
		})
	}
}

func TestParseKeyScheme(t *testing.T) {
	ks, err := ParseKeyScheme("handle-rkey")
	require.NoError(t, err)
	assert.Equal(t, SchemeHandleRkey, ks)

	ks, err = ParseKeyScheme("url")
	require.NoError(t, err)
	assert.Equal(t, SchemeCanonicalURL, ks)

	_, err = ParseKeyScheme("content-hash")
	assert.Error(t, err)
}

func TestSetCloneIsIndependent(t *testing.T) {
	now := time.Now()
	orig := Set{
		"alice-42": {Key: "alice-42", Payload: Payload{RawEmbedMarkup: "<div>X</div>", URL: "https://bsky.app/profile/alice/post/42"}, SavedAt: now},
	}

	clone := orig.Clone()
	clone["bob-7"] = Record{Key: "bob-7", SavedAt: now}

	assert.Len(t, orig, 1)
	assert.Len(t, clone, 2)
	assert.True(t, orig.Equal(orig.Clone()))
}

func TestSetEqual(t *testing.T) {
	now := time.Now()
	a := Set{"k": {Key: "k", Payload: Payload{RawEmbedMarkup: "<div/>", URL: "u"}, SavedAt: now}}
	b := Set{"k": {Key: "k", Payload: Payload{RawEmbedMarkup: "<div/>", URL: "u"}, SavedAt: now}}
	c := Set{"k": {Key: "k", Payload: Payload{RawEmbedMarkup: "<span/>", URL: "u"}, SavedAt: now}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Set{}))
}

func TestPayloadStructured(t *testing.T) {
	assert.False(t, Payload{RawEmbedMarkup: "<blockquote/>"}.Structured())
	assert.True(t, Payload{Content: "hello", Handle: "@alice"}.Structured())
}
