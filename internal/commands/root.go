package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.3.0"

// ExitError ends the process with Code without printing an error line. Checks
// return it when they report findings.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// newRootCmd builds the command tree writing reports to out and errors to
// errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "sitegate",
		Short: "Static site validation and release gate",
		Long: "Sitegate validates a static site checked out on disk (links, accessibility, copy style, " +
			"video manifest, PDFs, sitemap, headers) and runs the ordered release gate before deploys.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.rootDir, "root", ".", "Site root directory")
	flags.StringVar(&a.configPath, "config", "", "Config file (default: <root>/sitegate.yaml or $SITEGATE_CONFIG)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newLinksCmd(a))
	for _, cmd := range newCheckCmds(a) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newGateCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newScheduleCmd(a))
	rootCmd.AddCommand(newMCPCmd(a))
	rootCmd.AddCommand(newDoctorCmd(a))

	return rootCmd
}

// Execute runs the CLI and returns the process exit code. Interrupts cancel
// the command context, which aborts running checks and gate children.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	return exitCode(err, os.Stderr)
}

func exitCode(err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)
	return 1
}
