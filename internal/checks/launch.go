package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// Launch checks launch blockers that can be verified from repository state.
type Launch struct {
	cfg *config.Config
}

// NewLaunch returns the launch blocker check.
func NewLaunch(cfg *config.Config) *Launch {
	return &Launch{cfg: cfg}
}

func (c *Launch) Name() string        { return "launch" }
func (c *Launch) Description() string { return "Launch blockers visible from the repository" }

func (c *Launch) Run(ctx context.Context, s *site.Site) (*Report, error) {
	cfg := c.cfg.Launch
	report := &Report{Check: c.Name(), Title: "Launch blocker checks failed:"}

	for _, rel := range cfg.RequiredFiles {
		if !s.Exists(rel) {
			report.Failf("Missing required file: %s", rel)
		}
	}

	if err := c.checkEnvExample(s, report); err != nil {
		return nil, err
	}
	if err := c.checkRedirects(s, report); err != nil {
		return nil, err
	}

	for _, req := range cfg.RequiredText {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := s.ReadText(req.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				report.Failf("Missing required file for text check: %s", req.Path)
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
		}
		if !strings.Contains(text, req.Needle) {
			report.Failf("Missing required config/text in %s: %s", req.Path, req.Needle)
		}
	}

	report.Summary = "Launch blocker checks OK."
	return report, nil
}

func (c *Launch) checkEnvExample(s *site.Site, report *Report) error {
	cfg := c.cfg.Launch
	if cfg.EnvExample == "" {
		return nil
	}
	text, err := s.ReadText(cfg.EnvExample)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			report.Failf("Missing %s", cfg.EnvExample)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", cfg.EnvExample, err)
	}

	env, err := godotenv.Unmarshal(text)
	if err != nil {
		report.Failf("Unparseable %s: %v", cfg.EnvExample, err)
		return nil
	}
	for _, key := range cfg.RequiredEnvKeys {
		if _, ok := env[key]; !ok {
			report.Failf("Missing env key in %s: %s", cfg.EnvExample, key)
		}
	}
	return nil
}

func (c *Launch) checkRedirects(s *site.Site, report *Report) error {
	redirects := c.cfg.Launch.RequiredRedirects
	if len(redirects) == 0 {
		return nil
	}
	nf, err := loadNetlify(s)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			report.Failf("Missing required file for text check: %s", netlifyConfig)
			return nil
		}
		report.Failf("%v", err)
		return nil
	}
	for _, r := range redirects {
		if !nf.hasRedirect(r.From, r.To) {
			report.Failf("Missing required redirect in %s: from = %q to = %q", netlifyConfig, r.From, r.To)
		}
	}
	return nil
}
