package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// Sources verifies the Further Sources hub and the citation markers on the
// pages that cite it.
type Sources struct {
	cfg *config.Config
}

// NewSources returns the Further Sources integration check.
func NewSources(cfg *config.Config) *Sources {
	return &Sources{cfg: cfg}
}

func (c *Sources) Name() string        { return "sources" }
func (c *Sources) Description() string { return "Further Sources citations and page markers" }

func (c *Sources) Run(ctx context.Context, s *site.Site) (*Report, error) {
	cfg := c.cfg.Sources
	report := &Report{Check: c.Name(), Title: "Further Sources checks failed:"}

	for _, rel := range cfg.RequiredPaths {
		if !s.Exists(rel) {
			report.Failf("Missing required source file: %s", rel)
		}
	}

	if cfg.HubPage != "" && s.Exists(cfg.HubPage) {
		hub, err := s.ReadText(cfg.HubPage)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", cfg.HubPage, err)
		}
		for _, frag := range cfg.LinkFragments {
			if !strings.Contains(hub, frag) {
				report.Failf("Missing expected citation/link in %s: %s", cfg.HubPage, frag)
			}
		}
	}

	for _, pm := range cfg.PageMarkers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := s.ReadText(pm.Page)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				report.Failf("Missing page for marker check: %s", pm.Page)
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", pm.Page, err)
		}
		if !strings.Contains(body, pm.Marker) {
			report.Failf("Missing marker '%s' in %s", pm.Marker, pm.Page)
		}
	}

	report.Summary = "Further Sources integration checks OK."
	return report, nil
}
