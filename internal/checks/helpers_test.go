package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// newSite writes files (slash-separated path -> body) into a temp root.
func newSite(t *testing.T, files map[string]string) *site.Site {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	s, err := site.Open(root)
	require.NoError(t, err)
	return s
}

func run(t *testing.T, c Checker, s *site.Site) *Report {
	t.Helper()
	r, err := c.Run(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func testConfig() *config.Config {
	return config.Default()
}
