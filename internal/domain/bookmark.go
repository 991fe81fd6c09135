package domain

import "time"

// Record is one persisted bookmark: a stable key, a durable payload that
// can be re-rendered outside the host page, and the time it was saved.
type Record struct {
	Key     string    `json:"key"`
	Payload Payload   `json:"payload"`
	SavedAt time.Time `json:"savedAt"`
}

// Payload is the durable representation of a post. A given build produces
// exactly one shape: either RawEmbedMarkup (obtained from the host page's
// embed dialog) or the structured fields. Historical records of either
// shape may coexist in one persisted set after an upgrade, so the listing
// view renders both.
type Payload struct {
	// RawEmbedMarkup is the embed HTML snippet copied out of the host
	// page's share dialog.
	RawEmbedMarkup string `json:"rawEmbedMarkup,omitempty"`

	// Structured fields, populated by older builds that scraped the
	// post in place instead of driving the embed dialog.
	Content   string `json:"content,omitempty"`
	Author    string `json:"author,omitempty"`
	Handle    string `json:"handle,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`

	// URL is the canonical post URL, present in both shapes.
	URL string `json:"url"`
}

// Structured reports whether the payload carries the structured shape
// rather than raw embed markup.
func (p Payload) Structured() bool {
	return p.RawEmbedMarkup == ""
}

// Set is the complete persisted mapping of bookmark keys to records.
// It is owned by the external store; every holder of a Set value has a
// snapshot, never the authoritative copy.
type Set map[string]Record

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether two sets hold the same keys and records.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		o, ok := other[k]
		if !ok {
			return false
		}
		if v.Key != o.Key || v.Payload != o.Payload || !v.SavedAt.Equal(o.SavedAt) {
			return false
		}
	}
	return true
}
