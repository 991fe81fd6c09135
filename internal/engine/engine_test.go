package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"skymark/internal/dom"
	"skymark/internal/dom/domtest"
	"skymark/internal/domain"
	"skymark/internal/logger"
	"skymark/internal/profile"
)

// Shared test fixtures: a fake bookmark store, a recording notifier, and
// builders for the host page tree the engine automates.

type fakeStore struct {
	mu        sync.Mutex
	set       domain.Set
	readErr   error
	writeErr  error
	reads     int
	writes    int
	lastWrite domain.Set
}

func newFakeStore() *fakeStore {
	return &fakeStore{set: domain.Set{}}
}

func (s *fakeStore) GetBookmarks(ctx context.Context) (domain.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.set.Clone(), nil
}

func (s *fakeStore) SetBookmarks(ctx context.Context, set domain.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes++
	s.set = set.Clone()
	s.lastWrite = set.Clone()
	return nil
}

func (s *fakeStore) snapshot() domain.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Clone()
}

type fakeNotifier struct {
	notices []string
}

func (n *fakeNotifier) Notify(msg string) { n.notices = append(n.notices, msg) }

type fakeOpener struct {
	opened int
}

func (o *fakeOpener) OpenListView() error { o.opened++; return nil }

// actionRowStyle must contain the substring the default action-row
// selector matches on.
const actionRowStyle = "flex-direction: row; justify-content: space-between; align-items: center;"

// newPost builds a rendered post the way bsky.app lays one out: the
// discriminator on data-testid, the author handle on a profile anchor,
// and an action row ending in the share button.
func newPost(handle, rkey string) *domtest.Node {
	post := domtest.NewNode("div", map[string]string{
		"data-testid": "postThreadItem-" + rkey,
	})
	post.Append(domtest.NewNode("a", map[string]string{"href": "/profile/" + handle}))
	post.Append(domtest.NewNode("div", map[string]string{"data-testid": "postDropdownBtn"}))

	row := domtest.NewNode("div", map[string]string{
		"class": "css-175oi2r",
		"style": actionRowStyle,
	})
	row.Append(domtest.NewNode("div", map[string]string{"data-testid": "likeBtn"}))
	row.Append(domtest.NewNode("div", map[string]string{"data-testid": "repostBtn"}))
	row.Append(domtest.NewNode("div", map[string]string{"data-testid": "shareBtn"}))
	post.Append(row)
	return post
}

// wireEmbedDialog makes the post's options button behave like the host
// page: clicking it opens a menu offering an embed entry, and clicking
// that opens a dialog whose input holds embedMarkup. Close buttons tear
// everything down again.
func wireEmbedDialog(doc *domtest.Doc, post *domtest.Node, embedMarkup string) {
	options, _ := post.Query(`[data-testid="postDropdownBtn"]`)
	optionsNode := options.(*domtest.Node)
	optionsNode.OnClick = func() {
		menu := domtest.NewNode("div", map[string]string{"role": "menu"})
		entry := domtest.NewNode("div", map[string]string{"data-testid": "postDropdownEmbedBtn"})
		entry.OnClick = func() {
			dialog := domtest.NewNode("div", map[string]string{"role": "dialog"})
			input := domtest.NewNode("input", map[string]string{"placeholder": "Embed HTML code"})
			input.SetValue(embedMarkup)
			closeBtn := domtest.NewNode("button", map[string]string{"aria-label": "Close active dialog"})
			closeBtn.OnClick = func() {
				_ = dialog.Remove()
				_ = menu.Remove()
			}
			dialog.Append(input)
			dialog.Append(closeBtn)
			doc.BodyNode().Append(dialog)
		}
		menu.Append(entry)
		doc.BodyNode().Append(menu)
	}
}

type testEnv struct {
	doc      *domtest.Doc
	store    *fakeStore
	cache    *Cache
	resolver *Resolver
	aff      *Affordance
	pipe     *Pipeline
	coord    *Coordinator
	watcher  *Watcher
	notes    *fakeNotifier
	opener   *fakeOpener
}

func newTestEnv(t *testing.T, posts ...*domtest.Node) *testEnv {
	t.Helper()

	body := domtest.NewNode("body", nil)
	for _, p := range posts {
		body.Append(p)
	}
	doc := domtest.NewDoc(body)

	prof := profile.Default()
	log := logger.Nop()
	store := newFakeStore()
	cache := NewCache(store)
	resolver := NewResolver(domain.SchemeHandleRkey, prof)
	aff := NewAffordance(prof, resolver, cache, log)
	pipe := NewPipeline(doc, prof, log)
	pipe.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	notes := &fakeNotifier{}
	coord := NewCoordinator(store, cache, pipe, aff, resolver, notes, log)
	coord.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	opener := &fakeOpener{}
	watcher := NewWatcher(doc, doc, aff, coord, opener, prof, log)

	return &testEnv{
		doc:      doc,
		store:    store,
		cache:    cache,
		resolver: resolver,
		aff:      aff,
		pipe:     pipe,
		coord:    coord,
		watcher:  watcher,
		notes:    notes,
		opener:   opener,
	}
}

// control returns the toggle control attached to a post, if any.
func control(post *domtest.Node) (dom.Element, bool) {
	return post.Query("." + ControlClass)
}
