package domain

import "fmt"

// KeyScheme selects how bookmark keys are derived from a rendered post.
// A deployment uses exactly one scheme: records written under one scheme
// are invisible to bookmarked-state checks performed under the other.
type KeyScheme string

const (
	// SchemeHandleRkey keys records as "{handle}-{rkey}", derived purely
	// from DOM attributes present at detection time. Preferred.
	SchemeHandleRkey KeyScheme = "handle-rkey"

	// SchemeCanonicalURL keys records by the canonical post URL.
	SchemeCanonicalURL KeyScheme = "url"
)

// ParseKeyScheme validates a configured scheme name.
func ParseKeyScheme(s string) (KeyScheme, error) {
	switch KeyScheme(s) {
	case SchemeHandleRkey, SchemeCanonicalURL:
		return KeyScheme(s), nil
	}
	return "", fmt.Errorf("unknown key scheme %q (want %q or %q)", s, SchemeHandleRkey, SchemeCanonicalURL)
}

// Key derives the bookmark key for a post under this scheme.
func (ks KeyScheme) Key(handle, rkey string) string {
	if ks == SchemeCanonicalURL {
		return CanonicalURL(handle, rkey)
	}
	return handle + "-" + rkey
}

// CanonicalURL builds the public URL of a post from its author handle and
// record key.
func CanonicalURL(handle, rkey string) string {
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, rkey)
}
