// Package gate runs the release gate: an ordered list of commands and checks
// that stops at the first failure.
package gate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/checks"
	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/logging"
	"github.com/efinstitute/sitegate/internal/site"
	"github.com/efinstitute/sitegate/internal/storage"
	"github.com/efinstitute/sitegate/internal/terminal"
)

// Options configures a Runner.
type Options struct {
	Site     *site.Site
	Config   *config.Config
	Registry *checks.Registry
	UI       *terminal.UI
	Logger   *zap.Logger
	// History records every run when set.
	History *storage.HistoryStore
	// Executable is the binary used for subprocess checks. Empty means the
	// running executable.
	Executable string
	// ConfigPath is forwarded to subprocess checks as --config.
	ConfigPath string
	// InProcess runs every check step in-process, ignoring Subprocess.
	InProcess bool
	// Trigger is stored with the run (cli, schedule, mcp).
	Trigger string
}

// Runner executes the configured gate steps.
type Runner struct {
	opts  Options
	steps []config.GateStep
}

// stepFailure carries what the gate prints for a failed step.
type stepFailure struct {
	reason   string
	exitCode int
}

// New validates the configured steps against the registry.
func New(opts Options) (*Runner, error) {
	if opts.Site == nil || opts.Config == nil || opts.Registry == nil || opts.UI == nil {
		return nil, errors.New("gate: site, config, registry and ui are required")
	}
	opts.Logger = logging.OrNop(opts.Logger)
	for i, step := range opts.Config.Gate.Steps {
		if step.Check != "" && !opts.Registry.Has(step.Check) {
			return nil, fmt.Errorf("gate.steps[%d] (%s): unknown check %q", i, step.Label, step.Check)
		}
	}
	return &Runner{opts: opts, steps: opts.Config.Gate.Steps}, nil
}

// Run executes the steps in order and returns the recorded run. A failed step
// is reported through the run's ExitCode. When the gate cannot finish, e.g. on
// cancellation, the partial run is still recorded as failed at the
// interrupted step and returned together with the error.
func (r *Runner) Run(ctx context.Context) (*storage.GateRun, error) {
	run := &storage.GateRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Passed:    true,
		Trigger:   r.opts.Trigger,
	}
	logger := r.opts.Logger.With(zap.String("run_id", run.ID))
	ui := r.opts.UI

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return r.abort(run, step, logger, err)
		}
		ui.Gate(step.Label)

		started := time.Now()
		failure, err := r.runStep(ctx, step)
		if err != nil {
			return r.abort(run, step, logger, err)
		}
		sr := storage.StepRun{Label: step.Label, Check: step.Check, Passed: failure == nil, Duration: time.Since(started)}
		if failure != nil {
			sr.ExitCode = failure.exitCode
		}
		run.Steps = append(run.Steps, sr)
		logger.Debug("gate step finished",
			zap.String("step", step.Label), zap.Bool("passed", sr.Passed), zap.Duration("duration", sr.Duration))

		if failure != nil {
			run.Passed = false
			run.FailedStep = step.Label
			run.ExitCode = failure.exitCode
			ui.Gate("release gate failed: " + failure.reason)
			break
		}
	}
	if run.Passed {
		ui.Gate("release gate passed")
	}
	r.record(run, logger)
	return run, nil
}

// abort marks run as failed at step and records it.
func (r *Runner) abort(run *storage.GateRun, step config.GateStep, logger *zap.Logger, err error) (*storage.GateRun, error) {
	run.Passed = false
	run.FailedStep = step.Label
	run.ExitCode = 1
	logger.Warn("gate interrupted", zap.String("step", step.Label), zap.Error(err))
	r.record(run, logger)
	return run, err
}

func (r *Runner) record(run *storage.GateRun, logger *zap.Logger) {
	run.Duration = time.Since(run.StartedAt)
	if r.opts.History == nil {
		return
	}
	if err := r.opts.History.Append(*run); err != nil {
		logger.Warn("failed to record gate run", zap.Error(err))
	}
}

func (r *Runner) runStep(ctx context.Context, step config.GateStep) (*stepFailure, error) {
	switch {
	case len(step.Command) > 0:
		return r.runCommand(ctx, step.Label, step.Command)
	case step.Subprocess && !r.opts.InProcess:
		return r.runSubprocess(ctx, step)
	default:
		return r.runInProcess(ctx, step)
	}
}

func (r *Runner) runSubprocess(ctx context.Context, step config.GateStep) (*stepFailure, error) {
	exe := r.opts.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("failed to locate sitegate executable: %w", err)
		}
	}
	argv := []string{exe, "--root", r.opts.Site.Root}
	if r.opts.ConfigPath != "" {
		argv = append(argv, "--config", r.opts.ConfigPath)
	}
	if !r.opts.UI.Color {
		argv = append(argv, "--no-color")
	}
	argv = append(argv, step.Check)
	if step.Check == "links" && r.opts.Config.External.Enabled {
		argv = append(argv, "--external")
	}
	return r.runCommand(ctx, step.Label, argv)
}

// runCommand runs argv in the site root with output passed through. A
// non-zero exit fails the step with the child's code; a command that cannot
// start fails it with 1.
func (r *Runner) runCommand(ctx context.Context, label string, argv []string) (*stepFailure, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.opts.Site.Root
	cmd.Stdout = r.opts.UI.Out
	cmd.Stderr = r.opts.UI.Err

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err == nil {
		return nil, nil
	}

	code := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if c := exitErr.ExitCode(); c > 0 {
			code = c
		}
	} else {
		r.opts.Logger.Error("gate command could not start", zap.Strings("argv", argv), zap.Error(err))
	}
	return &stepFailure{reason: "Failed: " + label, exitCode: code}, nil
}

// runInProcess runs a step's checks in order and stops at the first failing
// report.
func (r *Runner) runInProcess(ctx context.Context, step config.GateStep) (*stepFailure, error) {
	for _, name := range checks.Plan(step.Check, r.opts.Config.External.Enabled) {
		failure, err := r.runCheck(ctx, name)
		if failure != nil || err != nil {
			return failure, err
		}
	}
	return nil, nil
}

// runCheck runs one check and prints its failures as " - " bullets. The
// gate's failure line uses the report title, or the single failure when the
// check could not itemize anything.
func (r *Runner) runCheck(ctx context.Context, name string) (*stepFailure, error) {
	checker, err := r.opts.Registry.Lookup(name, r.opts.Config)
	if err != nil {
		return nil, err
	}
	report, err := checker.Run(ctx, r.opts.Site)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &stepFailure{reason: err.Error(), exitCode: 1}, nil
	}
	if report.Passed() {
		return nil, nil
	}

	if report.Title == "" {
		return &stepFailure{reason: report.Failures[0], exitCode: 1}, nil
	}
	for _, f := range report.Failures {
		r.opts.UI.Error(" - " + f)
	}
	return &stepFailure{reason: report.Title, exitCode: 1}, nil
}
