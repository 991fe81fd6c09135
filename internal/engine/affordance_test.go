package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymark/internal/dom/domtest"
	"skymark/internal/domain"
)

func TestAttachIsIdempotent(t *testing.T) {
	post := newPost("alice", "42")
	env := newTestEnv(t, post)

	require.NoError(t, env.aff.Attach(post))
	require.NoError(t, env.aff.Attach(post))

	assert.Len(t, post.QueryAll("."+ControlClass), 1, "attach twice must yield exactly one control")
}

func TestAttachInsertsBeforeLastAction(t *testing.T) {
	post := newPost("alice", "42")
	env := newTestEnv(t, post)

	require.NoError(t, env.aff.Attach(post))

	rowEl, ok := post.Query(env.aff.prof.ActionRow)
	require.True(t, ok)
	row := rowEl.(*domtest.Node)
	children := row.Children()
	require.Len(t, children, 4)

	// The control container sits in front of the row's last action.
	_, ok = children[2].Query("." + ControlClass)
	assert.True(t, ok)
	tid, _ := children[3].Attr("data-testid")
	assert.Equal(t, "shareBtn", tid)
}

func TestAttachRecordsResolvedKey(t *testing.T) {
	post := newPost("alice", "42")
	env := newTestEnv(t, post)

	require.NoError(t, env.aff.Attach(post))

	ctrl, ok := control(post)
	require.True(t, ok)
	key, ok := env.aff.ControlKey(ctrl)
	require.True(t, ok)
	assert.Equal(t, "alice-42", key)
}

func TestAttachSkipsItemWithoutActionBar(t *testing.T) {
	// A post with no share button has no rendered action bar yet;
	// attachment silently skips it.
	post := domtest.NewNode("div", map[string]string{"data-testid": "postThreadItem-42"},
		domtest.NewNode("a", map[string]string{"href": "/profile/alice"}))
	env := newTestEnv(t, post)

	require.NoError(t, env.aff.Attach(post))
	_, ok := control(post)
	assert.False(t, ok)
}

func TestAttachSkipsUnresolvableItem(t *testing.T) {
	post := newPost("alice", "42")
	link, _ := post.Query(`a[href^="/profile/"]`)
	require.NoError(t, link.(*domtest.Node).Remove())
	env := newTestEnv(t, post)

	require.NoError(t, env.aff.Attach(post))
	_, ok := control(post)
	assert.False(t, ok)
}

func TestReflectIsIdempotent(t *testing.T) {
	post := newPost("alice", "42")
	env := newTestEnv(t, post)
	require.NoError(t, env.aff.Attach(post))

	ctrl, ok := control(post)
	require.True(t, ok)
	svgEl, ok := ctrl.Query("svg")
	require.True(t, ok)
	svg := svgEl.(*domtest.Node)

	require.NoError(t, env.aff.Reflect(ctrl, true))
	first := svg.StyleValue("color")
	require.NoError(t, env.aff.Reflect(ctrl, true))
	assert.Equal(t, first, svg.StyleValue("color"))
	assert.Equal(t, "rgb(32, 139, 254)", first)

	require.NoError(t, env.aff.Reflect(ctrl, false))
	assert.Equal(t, "rgb(120, 142, 165)", svg.StyleValue("color"))
}

func TestAttachUsesCachedState(t *testing.T) {
	post := newPost("alice", "42")
	env := newTestEnv(t, post)
	env.cache.Replace(domain.Set{"alice-42": {Key: "alice-42"}})

	require.NoError(t, env.aff.Attach(post))

	ctrl, ok := control(post)
	require.True(t, ok)
	svgEl, ok := ctrl.Query("svg")
	require.True(t, ok)
	assert.Equal(t, "rgb(32, 139, 254)", svgEl.(*domtest.Node).StyleValue("color"))
}
