package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [checks...]",
		Short: "Re-run checks when site files change",
		Long: "Watch the site root and its js/, data/ and docs/ directories and re-run the selected checks " +
			"(default: links, accessibility, copy-style) after changes settle. Stop with Ctrl-C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = a.cfg.Watch.Checks
			}
			for _, name := range names {
				if !a.registry.Has(name) {
					return fmt.Errorf("unknown check %q (known: %s)", name, strings.Join(a.registry.Names(), ", "))
				}
			}

			runAll := func(ctx context.Context) {
				if _, err := a.runChecks(ctx, names); err != nil && ctx.Err() == nil {
					a.logger.Error("watch run failed", zap.Error(err))
				}
			}

			w, err := watch.New(watch.Options{
				Root:     a.site.Root,
				Dirs:     a.cfg.Watch.Dirs,
				Debounce: a.cfg.Watch.Debounce.Std(),
				Logger:   a.logger,
				OnChange: func(ctx context.Context, paths []string) {
					a.ui.Header("[watch] changed: " + strings.Join(paths, ", "))
					runAll(ctx)
				},
			})
			if err != nil {
				return err
			}

			runAll(cmd.Context())
			a.ui.Info(fmt.Sprintf("[watch] watching %d directories for %s (Ctrl-C to stop)",
				len(w.Dirs()), strings.Join(names, ", ")))
			return w.Run(cmd.Context())
		},
	}
}
