package commands

import (
	"github.com/spf13/cobra"

	"github.com/efinstitute/sitegate/internal/gate"
)

func newGateCmd(a *app) *cobra.Command {
	var inProcess bool
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Run the release gate",
		Long: "Run the configured release gate steps in order. The first failing step stops the gate " +
			"and its exit code becomes the gate's exit code.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := gate.New(gate.Options{
				Site:       a.site,
				Config:     a.cfg,
				Registry:   a.registry,
				UI:         a.ui,
				Logger:     a.logger,
				History:    a.history(),
				ConfigPath: a.configPath,
				InProcess:  inProcess,
				Trigger:    "cli",
			})
			if err != nil {
				return err
			}
			run, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if run.ExitCode != 0 {
				return &ExitError{Code: run.ExitCode}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inProcess, "in-process", false, "Run every check step in this process instead of a child sitegate")
	return cmd
}
