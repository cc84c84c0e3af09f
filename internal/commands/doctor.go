package commands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/efinstitute/sitegate/internal/update"
)

func newDoctorCmd(a *app) *cobra.Command {
	var checkUpdates bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Verify the gate's prerequisites",
		Long:  "Check that the config loads and every tool the release gate runs is installed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.ui.Header("Sitegate Doctor")
			a.ui.Detail("Site root", a.site.Root)
			a.ui.Detail("Canonical domain", a.cfg.CanonicalDomain)
			a.ui.Detail("Gate steps", fmt.Sprintf("%d", len(a.cfg.Gate.Steps)))
			fmt.Fprintln(a.out)

			allGood := true
			seen := make(map[string]bool)
			for _, step := range a.cfg.Gate.Steps {
				if len(step.Command) == 0 || seen[step.Command[0]] {
					continue
				}
				tool := step.Command[0]
				seen[tool] = true
				if path, err := exec.LookPath(tool); err == nil {
					a.ui.Success(fmt.Sprintf("%s found at %s (%s)", tool, path, step.Label))
				} else {
					a.ui.Error(fmt.Sprintf("%s not found on PATH (needed by %q)", tool, step.Label))
					allGood = false
				}
			}

			if exe, err := os.Executable(); err == nil {
				a.ui.Success("subprocess checks run " + exe)
			} else {
				a.ui.Error(fmt.Sprintf("cannot locate the sitegate executable for subprocess checks: %v", err))
				allGood = false
			}

			if checkUpdates {
				res, err := update.NewChecker("efinstitute", "sitegate").Check(cmd.Context(), Version)
				switch {
				case err != nil:
					a.ui.Warning(fmt.Sprintf("update check failed: %v", err))
				case res.NeedsUpdate():
					a.ui.Warning(fmt.Sprintf("sitegate %s is available (running %s): %s", res.Latest, res.Current, res.UpdateURL))
				default:
					a.ui.Success("sitegate " + res.Current + " is up to date")
				}
			}

			if !allGood {
				fmt.Fprintln(a.out)
				a.ui.Warning("Install the missing tools or adjust gate.steps in sitegate.yaml.")
			}
			return exitFor(allGood)
		},
	}
	cmd.Flags().BoolVar(&checkUpdates, "check-updates", false, "Also check GitHub for a newer sitegate release")
	return cmd
}
