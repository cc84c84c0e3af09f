package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efinstitute/sitegate/internal/checks"
	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
	"github.com/efinstitute/sitegate/internal/storage"
)

func newServer(t *testing.T, files map[string]string, steps ...config.GateStep) *Server {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	s, err := site.Open(root)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Gate.Steps = steps
	history := storage.NewHistoryStore(filepath.Join(root, ".sitegate"), 10)
	return New(s, cfg, checks.Default(), history, nil, "test")
}

func TestListChecks(t *testing.T) {
	srv := newServer(t, nil)
	_, out, err := srv.handleListChecks(context.Background(), nil, listChecksInput{})
	require.NoError(t, err)

	var names []string
	for _, c := range out.Checks {
		names = append(names, c.Name)
		if c.Name == "accessibility" {
			assert.Equal(t, []string{"a11y"}, c.Aliases)
		}
	}
	assert.Contains(t, names, "links")
	assert.Contains(t, names, "sitemap")
}

func TestRunCheck(t *testing.T) {
	srv := newServer(t, map[string]string{"index.html": `<a href="missing.html">x</a>`})

	_, out, err := srv.handleRunCheck(context.Background(), nil, runCheckInput{Name: "links"})
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, "Broken local links found:\n- index.html: missing.html", out.Report)

	_, _, err = srv.handleRunCheck(context.Background(), nil, runCheckInput{Name: "nope"})
	require.ErrorContains(t, err, `unknown check "nope"`)
}

func TestRunGateRecordsHistory(t *testing.T) {
	srv := newServer(t, map[string]string{"index.html": ""},
		config.GateStep{Label: "shell", Command: []string{"true"}},
		config.GateStep{Label: "local link check", Check: "links", Subprocess: true},
	)

	_, out, err := srv.handleRunGate(context.Background(), nil, runGateInput{})
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, "[gate] shell\n[gate] local link check\n[gate] release gate passed\n", out.Transcript)

	runs, err := srv.history.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, out.RunID, runs[0].ID)
	assert.Equal(t, "mcp", runs[0].Trigger)
}

func TestServeOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, map[string]string{"index.html": `<a href="index.html">home</a>`})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := srv.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "run_check",
		Arguments: map[string]any{"name": "links"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Local links OK")
}
