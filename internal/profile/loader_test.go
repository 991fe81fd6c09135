package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	prof, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, "https://bsky.app", prof.BaseURL)
	assert.Equal(t, "https://embed.bsky.app", prof.EmbedHost)
	assert.Equal(t, `[data-testid^="postThreadItem-"]`, prof.ItemSelector)
	assert.Equal(t, 500*time.Millisecond, prof.MenuSettle())
	assert.Equal(t, 3*time.Second, prof.ToastDuration())
}

func TestLoadOverlaysFileOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := []byte("item_selector: '[data-testid^=\"feedItem-\"]'\nmenu_settle_ms: 750\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	prof, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, `[data-testid^="feedItem-"]`, prof.ItemSelector)
	assert.Equal(t, 750*time.Millisecond, prof.MenuSettle())
	// Everything not named in the file keeps its default.
	assert.Equal(t, `[data-testid="shareBtn"]`, prof.ShareButton)
	assert.Equal(t, "https://embed.bsky.app", prof.EmbedHost)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	assert.Error(t, err)
}

func TestLoadRejectsIncompleteProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := []byte("item_selector: ''\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}
