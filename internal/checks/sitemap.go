package checks

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap verifies sitemap.xml lists every page with an absolute URL on the
// canonical domain.
type Sitemap struct {
	cfg *config.Config
}

// NewSitemap returns the sitemap coverage check.
func NewSitemap(cfg *config.Config) *Sitemap {
	return &Sitemap{cfg: cfg}
}

func (c *Sitemap) Name() string        { return "sitemap" }
func (c *Sitemap) Description() string { return "sitemap.xml covers every page with absolute URLs" }

func (c *Sitemap) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name()}

	locs, err := readSitemapLocs(s)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fatal(report, "Missing sitemap.xml"), nil
		}
		return fatal(report, "%v", err), nil
	}

	report.Title = "Sitemap URL format check failed"
	for _, loc := range locs {
		if !strings.HasPrefix(loc, c.cfg.CanonicalDomain) {
			report.Failf("Non-absolute or wrong-domain sitemap URL: %s", loc)
		}
	}
	if len(report.Failures) > 0 {
		return report, nil
	}

	pages, err := s.HTMLPages()
	if err != nil {
		return nil, err
	}
	listed := make(map[string]bool, len(locs))
	for _, loc := range locs {
		listed[loc] = true
	}
	var missing []string
	for _, page := range pages {
		name := filepath.Base(page)
		if c.cfg.IsIgnoredPage(name) {
			continue
		}
		if want := c.cfg.CanonicalDomain + name; !listed[want] {
			missing = append(missing, want)
		}
	}
	sort.Strings(missing)

	report.Title = "Sitemap coverage check failed"
	for _, loc := range missing {
		report.Failf("Missing sitemap URL: %s", loc)
	}

	report.Summary = fmt.Sprintf("Sitemap OK (%d URLs).", len(locs))
	return report, nil
}

// readSitemapLocs returns the non-empty, trimmed <loc> values of
// urlset/url entries in the sitemap namespace.
func readSitemapLocs(s *site.Site) ([]string, error) {
	f, err := os.Open(s.Path("sitemap.xml"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var set sitemapURLSet
	if err := xml.NewDecoder(f).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap.xml: %w", err)
	}
	if set.XMLName.Space != sitemapNamespace {
		return nil, fmt.Errorf("sitemap.xml: urlset is not in the %s namespace", sitemapNamespace)
	}

	var locs []string
	for _, u := range set.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs, nil
}
