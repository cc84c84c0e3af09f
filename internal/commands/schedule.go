package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/gate"
	"github.com/efinstitute/sitegate/internal/scheduler"
)

func newScheduleCmd(a *app) *cobra.Command {
	var spec string
	var runNow bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the release gate on a cron schedule",
		Long: "Run the release gate in-process on a cron schedule and record every run in the gate history. " +
			"Accepts five-field specs, an optional leading seconds field, and descriptors such as @hourly. " +
			"A run that is still going when the next tick fires causes that tick to be skipped.",
		Example: "  sitegate schedule --cron \"0 */6 * * *\"\n  sitegate schedule --cron @hourly --now",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" {
				return errors.New("--cron is required")
			}
			runner, err := gate.New(gate.Options{
				Site:      a.site,
				Config:    a.cfg,
				Registry:  a.registry,
				UI:        a.ui,
				Logger:    a.logger,
				History:   a.history(),
				InProcess: true,
				Trigger:   "schedule",
			})
			if err != nil {
				return err
			}

			job := func(ctx context.Context) error {
				run, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				if !run.Passed {
					a.logger.Warn("scheduled gate run failed",
						zap.String("run_id", run.ID),
						zap.String("step", run.FailedStep),
						zap.Int("exit_code", run.ExitCode))
				}
				return nil
			}

			s, err := scheduler.New(spec, job, a.logger)
			if err != nil {
				return err
			}
			if runNow {
				if err := s.RunOnce(cmd.Context()); err != nil {
					a.logger.Error("initial gate run failed", zap.Error(err))
				}
			}
			return s.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "Cron schedule for gate runs")
	cmd.Flags().BoolVar(&runNow, "now", false, "Also run the gate once immediately")
	return cmd
}
