package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/efinstitute/sitegate/internal/checks"
	"github.com/efinstitute/sitegate/internal/terminal"
)

// newCheckCmds returns one command per registered check. links has its own
// command for the --external flag.
func newCheckCmds(a *app) []*cobra.Command {
	var cmds []*cobra.Command
	for _, info := range checks.Default().List() {
		if info.Name == "links" {
			continue
		}
		name := info.Name
		cmds = append(cmds, &cobra.Command{
			Use:     name,
			Aliases: info.Aliases,
			Short:   info.Description,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				passed, err := a.runChecks(cmd.Context(), []string{name})
				if err != nil {
					return err
				}
				return exitFor(passed)
			},
		})
	}
	return cmds
}

func newLinksCmd(a *app) *cobra.Command {
	var external bool
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Local links, scripts and stylesheets resolve to files",
		Long: "Check that every local href/src in the top-level HTML pages resolves to a file. " +
			"With --external, also probe http(s) links with HEAD, falling back once to GET.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passed, err := a.runChecks(cmd.Context(), checks.Plan("links", external || a.cfg.External.Enabled))
			if err != nil {
				return err
			}
			return exitFor(passed)
		},
	}
	cmd.Flags().BoolVar(&external, "external", false, "Also check external http(s) links")
	return cmd
}

// runChecks runs the named checks in order, printing each report. It reports
// whether all of them passed.
func (a *app) runChecks(ctx context.Context, names []string) (bool, error) {
	passed := true
	for _, name := range names {
		checker, err := a.registry.Lookup(name, a.cfg)
		if err != nil {
			return false, err
		}

		var spinner *terminal.Spinner
		if name == "external-links" {
			spinner = terminal.NewSpinner(a.errOut, "Checking external links...")
			spinner.Start()
		}
		report, err := checker.Run(ctx, a.site)
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return false, fmt.Errorf("%s check failed to run: %w", name, err)
		}

		a.ui.Report(report)
		if !report.Passed() {
			passed = false
		}
	}
	return passed, nil
}
