package commands

import (
	"github.com/spf13/cobra"

	"github.com/efinstitute/sitegate/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve checks and the release gate over MCP stdio",
		Long: "Starts an MCP server over stdio exposing list_checks, run_check and run_gate. " +
			"Used by editors and agents to validate the site through typed tool calls.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.New(a.site, a.cfg, a.registry, a.history(), a.logger, Version)
			return srv.Run(cmd.Context())
		},
	}
}
