package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// Canonical verifies that each page declares its published URL.
type Canonical struct {
	cfg *config.Config
}

// NewCanonical returns the canonical tag check.
func NewCanonical(cfg *config.Config) *Canonical {
	return &Canonical{cfg: cfg}
}

func (c *Canonical) Name() string        { return "canonical" }
func (c *Canonical) Description() string { return "Canonical link tags match the published URL" }

func (c *Canonical) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Canonical checks failed"}

	pages, err := s.HTMLPages()
	if err != nil {
		return nil, err
	}
	var checked int
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := filepath.Base(page)
		if c.cfg.IsIgnoredPage(name) {
			continue
		}
		checked++
		text, err := site.ReadFileText(page)
		if err != nil {
			return nil, err
		}
		found, ok, err := canonicalHref(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		expected := c.cfg.CanonicalDomain + name
		if !ok {
			report.Failf("%s: expected canonical '%s', found none", name, expected)
			continue
		}
		if found != expected {
			report.Failf("%s: expected canonical '%s', found '%s'", name, expected, found)
		}
	}

	report.Summary = fmt.Sprintf("Canonical tags OK across %d pages.", checked)
	return report, nil
}

// canonicalHref returns the trimmed href of the last <link rel="canonical">.
func canonicalHref(doc string) (string, bool, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", false, err
	}
	sel := d.Find(`link[rel="canonical"][href]`).Last()
	if sel.Length() == 0 {
		return "", false, nil
	}
	href, _ := sel.Attr("href")
	return strings.TrimSpace(href), true, nil
}
