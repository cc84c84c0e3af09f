package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/checks"
	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/logging"
	"github.com/efinstitute/sitegate/internal/site"
	"github.com/efinstitute/sitegate/internal/storage"
	"github.com/efinstitute/sitegate/internal/terminal"
)

// app is the state shared by every command, filled in from the global flags
// before a command runs.
type app struct {
	rootDir    string
	configPath string
	verbose    bool
	noColor    bool

	out    io.Writer
	errOut io.Writer

	site     *site.Site
	cfg      *config.Config
	logger   *zap.Logger
	ui       *terminal.UI
	registry *checks.Registry
}

func (a *app) load() error {
	if a.logger == nil {
		logger, err := logging.New(a.verbose)
		if err != nil {
			return err
		}
		a.logger = logger
	}

	if a.configPath != "" {
		abs, err := filepath.Abs(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		a.configPath = abs
	}

	s, err := site.Open(a.rootDir)
	if err != nil {
		return err
	}
	a.site = s

	cfg, err := config.Load(s.Root, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.ui = terminal.New(a.out, a.errOut, a.noColor)
	a.registry = checks.Default().WithLogger(a.logger)

	a.logger.Debug("loaded site",
		zap.String("root", s.Root),
		zap.String("canonical_domain", cfg.CanonicalDomain),
		zap.Int("gate_steps", len(cfg.Gate.Steps)))
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) history() *storage.HistoryStore {
	return storage.NewHistoryStore(a.cfg.HistoryDir(a.site.Root), a.cfg.History.MaxRuns)
}

// exitFor maps a failed outcome to exit status 1.
func exitFor(passed bool) error {
	if passed {
		return nil
	}
	return &ExitError{Code: 1}
}
