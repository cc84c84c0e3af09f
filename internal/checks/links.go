package checks

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/htmlscan"
	"github.com/efinstitute/sitegate/internal/site"
)

// pageLinkAttrs are the attributes the link checks follow.
var pageLinkAttrs = []htmlscan.LinkAttr{
	{Tag: "a", Attr: "href"},
	{Tag: "link", Attr: "href"},
	{Tag: "script", Attr: "src"},
}

// nonLocalPrefixes mark links that do not point at files in the site.
var nonLocalPrefixes = []string{"http://", "https://", "mailto:", "tel:", "data:", "#", "javascript:"}

func isNonLocal(link string) bool {
	for _, p := range nonLocalPrefixes {
		if strings.HasPrefix(link, p) {
			return true
		}
	}
	return false
}

// stripFragmentAndQuery drops "#..." and then "?..." from a link.
func stripFragmentAndQuery(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[:i]
	}
	return link
}

// localTargetExists resolves target against dir. Percent-encoded targets
// such as "Further%20Sources/a.pdf" are tried decoded as well.
func localTargetExists(dir, target string) bool {
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(target))); err == nil {
		return true
	}
	decoded, err := url.PathUnescape(target)
	if err != nil || decoded == target {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(decoded)))
	return err == nil
}

// Links verifies that local links resolve to files relative to their page.
type Links struct {
	cfg *config.Config
}

// NewLinks returns the local link check.
func NewLinks(cfg *config.Config) *Links {
	return &Links{cfg: cfg}
}

func (c *Links) Name() string        { return "links" }
func (c *Links) Description() string { return "Local links, scripts and stylesheets resolve to files" }

func (c *Links) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Broken local links found:", Compact: true}

	pages, err := s.HTMLPages()
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := site.ReadFileText(page)
		if err != nil {
			return nil, err
		}
		links, err := htmlscan.Links(text, pageLinkAttrs)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(page)
		for _, link := range links {
			if isNonLocal(link.Value) {
				continue
			}
			target := stripFragmentAndQuery(link.Value)
			if target == "" {
				continue
			}
			if !localTargetExists(dir, target) {
				report.Failf("%s: %s", filepath.Base(page), link.Value)
			}
		}
	}

	report.Summary = "Local links OK"
	return report, nil
}
