package checks

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// Headers verifies netlify.toml sets the required security headers.
type Headers struct {
	cfg *config.Config
}

// NewHeaders returns the security header check.
func NewHeaders(cfg *config.Config) *Headers {
	return &Headers{cfg: cfg}
}

func (c *Headers) Name() string        { return "headers" }
func (c *Headers) Description() string { return "netlify.toml sets the required security headers" }

func (c *Headers) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Netlify header check failed"}

	nf, err := loadNetlify(s)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fatal(report, "Missing %s", netlifyConfig), nil
		}
		return fatal(report, "%v", err), nil
	}

	for _, header := range c.cfg.RequiredHeaders {
		if !nf.headerSet(header) {
			report.Failf("Missing required header in %s: %s", netlifyConfig, header)
		}
	}

	report.Summary = fmt.Sprintf("Security headers OK (%d required).", len(c.cfg.RequiredHeaders))
	return report, nil
}
