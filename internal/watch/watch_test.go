package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "js"), 0o755))

	changes := make(chan []string, 4)
	w, err := New(Options{
		Root:     root,
		Dirs:     []string{".", "js", "docs"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(ctx context.Context, paths []string) { changes <- paths },
	})
	require.NoError(t, err)
	assert.Len(t, w.Dirs(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "js", "main.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o644))

	select {
	case paths := <-changes:
		assert.Equal(t, []string{"index.html", "js/main.js"}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNewRequiresExistingDir(t *testing.T) {
	_, err := New(Options{
		Root:     t.TempDir(),
		Dirs:     []string{"missing"},
		OnChange: func(context.Context, []string) {},
	})
	require.Error(t, err)

	_, err = New(Options{Root: t.TempDir()})
	require.Error(t, err)
}

func TestIgnored(t *testing.T) {
	assert.True(t, Ignored(".sitegate/history.json"))
	assert.True(t, Ignored(".git/index"))
	assert.True(t, Ignored("index.html~"))
	assert.True(t, Ignored("js/.main.js.swp"))
	assert.False(t, Ignored("index.html"))
	assert.False(t, Ignored("docs/roadmap.md"))
}
