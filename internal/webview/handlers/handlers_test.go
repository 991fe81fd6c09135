package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymark/internal/dom"
	"skymark/internal/domain"
	"skymark/internal/logger"
	"skymark/internal/webview/deps"
	"skymark/internal/webview/embed"
)

type fakeStore struct {
	set      domain.Set
	readErr  error
	writeErr error
}

func (s *fakeStore) GetBookmarks(ctx context.Context) (domain.Set, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.set.Clone(), nil
}

func (s *fakeStore) SetBookmarks(ctx context.Context, set domain.Set) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.set = set.Clone()
	return nil
}

func newDeps(store *fakeStore) deps.Deps {
	return deps.Deps{
		Logger:     logger.Nop(),
		StartTime:  time.Now(),
		TimeNow:    time.Now,
		Store:      store,
		EmbedHost:  "https://embed.bsky.app",
		BaseURL:    "http://127.0.0.1:8473/",
		Dispatcher: embed.NewDispatcher("https://embed.bsky.app"),
	}
}

func record(key, markup string, savedAt time.Time) domain.Record {
	return domain.Record{
		Key:     key,
		Payload: domain.Payload{RawEmbedMarkup: markup, URL: "https://bsky.app/profile/a/post/" + key},
		SavedAt: savedAt,
	}
}

const embedMarkup = `<blockquote class="bluesky-embed" data-bluesky-uri="at://did:plc:abc/app.bsky.feed.post/3k1"><p>hi</p></blockquote>`

func TestListRendersEmbedFrame(t *testing.T) {
	store := &fakeStore{set: domain.Set{
		"alice-3k1": record("alice-3k1", embedMarkup, time.Unix(100, 0)),
	}}
	d := newDeps(store)

	rec := httptest.NewRecorder()
	List(d)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-bluesky-id="embed-0"`)
	assert.Contains(t, body, "https://embed.bsky.app/embed/did:plc:abc/app.bsky.feed.post/3k1?id=embed-0")

	// The rendered frame is now a valid resize target.
	_, _, ok := d.Dispatcher.Resize(dom.Message{
		Origin: "https://embed.bsky.app",
		ID:     "embed-0",
		Height: 300,
	})
	assert.True(t, ok)
}

func TestListRendersStructuredCard(t *testing.T) {
	store := &fakeStore{set: domain.Set{
		"alice-1": {
			Key: "alice-1",
			Payload: domain.Payload{
				Content: "hello world",
				Author:  "Alice",
				Handle:  "alice.bsky.social",
				URL:     "https://bsky.app/profile/alice/post/1",
			},
			SavedAt: time.Unix(100, 0),
		},
	}}

	rec := httptest.NewRecorder()
	List(newDeps(store))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "hello world")
	assert.Contains(t, body, "@alice.bsky.social")
	assert.NotContains(t, body, "data-bluesky-id")
}

func TestListSortsBySavedAt(t *testing.T) {
	store := &fakeStore{set: domain.Set{
		"old": record("old", "", time.Unix(100, 0)),
		"new": record("new", "", time.Unix(200, 0)),
	}}
	d := newDeps(store)

	rec := httptest.NewRecorder()
	List(d)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, `value="new"`), strings.Index(body, `value="old"`),
		"newest first by default")

	rec = httptest.NewRecorder()
	List(d)(rec, httptest.NewRequest(http.MethodGet, "/?sort=oldest", nil))
	body = rec.Body.String()
	assert.Less(t, strings.Index(body, `value="old"`), strings.Index(body, `value="new"`))
}

func TestListStoreFailure(t *testing.T) {
	store := &fakeStore{readErr: assert.AnError}

	rec := httptest.NewRecorder()
	List(newDeps(store))(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteBookmark(t *testing.T) {
	store := &fakeStore{set: domain.Set{
		"alice-1": record("alice-1", "", time.Unix(1, 0)),
		"bob-2":   record("bob-2", "", time.Unix(2, 0)),
	}}

	form := url.Values{"key": {"alice-1"}}
	req := httptest.NewRequest(http.MethodPost, "/bookmarks/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	DeleteBookmark(newDeps(store))(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, present := store.set["alice-1"]
	assert.False(t, present)
	_, kept := store.set["bob-2"]
	assert.True(t, kept)
}

func TestDeleteBookmarkMissingKey(t *testing.T) {
	store := &fakeStore{set: domain.Set{}}
	req := httptest.NewRequest(http.MethodPost, "/bookmarks/delete", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	DeleteBookmark(newDeps(store))(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearBookmarks(t *testing.T) {
	store := &fakeStore{set: domain.Set{
		"alice-1": record("alice-1", "", time.Unix(1, 0)),
	}}

	rec := httptest.NewRecorder()
	ClearBookmarks(newDeps(store))(rec, httptest.NewRequest(http.MethodPost, "/bookmarks/clear", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, store.set)
}

func TestBookmarksJSON(t *testing.T) {
	store := &fakeStore{set: domain.Set{
		"alice-1": record("alice-1", "", time.Unix(1, 0)),
	}}

	rec := httptest.NewRecorder()
	BookmarksJSON(newDeps(store))(rec, httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"alice-1"`)
}
