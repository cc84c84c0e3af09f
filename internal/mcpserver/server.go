// Package mcpserver exposes the site checks and the release gate as MCP
// tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/checks"
	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/logging"
	"github.com/efinstitute/sitegate/internal/site"
	"github.com/efinstitute/sitegate/internal/storage"
)

// Server holds what the tool handlers need.
type Server struct {
	site     *site.Site
	cfg      *config.Config
	registry *checks.Registry
	history  *storage.HistoryStore
	logger   *zap.Logger
	version  string
}

// New returns a Server for one site. history and logger may be nil.
func New(s *site.Site, cfg *config.Config, registry *checks.Registry, history *storage.HistoryStore, logger *zap.Logger, version string) *Server {
	logger = logging.OrNop(logger)
	return &Server{site: s, cfg: cfg, registry: registry, history: history, logger: logger, version: version}
}

// MCP builds the MCP server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sitegate",
			Version: s.version,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_checks",
		Description: "List the available site checks with their aliases and descriptions.",
	}, s.handleListChecks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_check",
		Description: "Run one site check and return its rendered report. Example: run_check(name: \"links\", external: true) also probes external links.",
	}, s.handleRunCheck)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_gate",
		Description: "Run the release gate with every check in-process and return the transcript and exit code. The run is recorded in the gate history.",
	}, s.handleRunGate)

	return server
}

// Run serves over stdio. It blocks until the client disconnects or the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Debug("starting MCP server", zap.String("root", s.site.Root))
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}
