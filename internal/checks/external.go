package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/htmlscan"
	"github.com/efinstitute/sitegate/internal/linkcheck"
	"github.com/efinstitute/sitegate/internal/site"
)

// ExternalLinks probes every http(s) link referenced by the site.
type ExternalLinks struct {
	cfg    *config.Config
	prober *linkcheck.Prober
}

// NewExternalLinks returns the external link check. logger may be nil.
func NewExternalLinks(cfg *config.Config, logger *zap.Logger) *ExternalLinks {
	return &ExternalLinks{
		cfg: cfg,
		prober: linkcheck.New(linkcheck.Options{
			Timeout:     cfg.External.Timeout.Std(),
			Concurrency: cfg.External.Concurrency,
			UserAgent:   cfg.External.UserAgent,
			SkipHosts:   cfg.External.SkipHosts,
			Logger:      logger,
		}),
	}
}

// WithProber replaces the prober, mainly for tests.
func (c *ExternalLinks) WithProber(p *linkcheck.Prober) *ExternalLinks {
	c.prober = p
	return c
}

func (c *ExternalLinks) Name() string        { return "external-links" }
func (c *ExternalLinks) Description() string { return "External http(s) links answer without an error status" }

// collectExternal returns distinct external URLs in first-seen order and the
// first page that referenced each.
func collectExternal(s *site.Site) ([]string, map[string]string, error) {
	pages, err := s.HTMLPages()
	if err != nil {
		return nil, nil, err
	}
	var urls []string
	firstPage := make(map[string]string)
	for _, page := range pages {
		text, err := site.ReadFileText(page)
		if err != nil {
			return nil, nil, err
		}
		links, err := htmlscan.Links(text, pageLinkAttrs)
		if err != nil {
			return nil, nil, err
		}
		for _, link := range links {
			u := strings.TrimSpace(link.Value)
			if !isAbsoluteHTTP(u) {
				continue
			}
			if _, ok := firstPage[u]; ok {
				continue
			}
			firstPage[u] = filepath.Base(page)
			urls = append(urls, u)
		}
	}
	return urls, firstPage, nil
}

func (c *ExternalLinks) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Broken external links found:", Compact: true}

	urls, firstPage, err := collectExternal(s)
	if err != nil {
		return nil, err
	}
	results, err := c.prober.ProbeAll(ctx, urls)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if !res.OK() {
			report.Failf("%s: %s (%s)", firstPage[res.URL], res.URL, res.Reason())
		}
	}

	report.Summary = fmt.Sprintf("External links OK (%d checked)", len(results))
	return report, nil
}
