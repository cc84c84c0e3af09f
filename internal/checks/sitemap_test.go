package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sitemapXML(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locs {
		b.WriteString("  <url><loc>" + loc + "</loc></url>\n")
	}
	b.WriteString("</urlset>\n")
	return b.String()
}

func TestSitemapOK(t *testing.T) {
	domain := testConfig().CanonicalDomain
	s := newSite(t, map[string]string{
		"index.html":  "",
		"about.html":  "",
		"404.html":    "",
		"sitemap.xml": sitemapXML(domain+"index.html", " "+domain+"about.html "),
	})

	r := run(t, NewSitemap(testConfig()), s)
	assert.True(t, r.Passed())
	assert.Equal(t, "Sitemap OK (2 URLs).", r.String())
}

func TestSitemapWrongDomainStopsEarly(t *testing.T) {
	domain := testConfig().CanonicalDomain
	s := newSite(t, map[string]string{
		"index.html":  "",
		"about.html":  "",
		"sitemap.xml": sitemapXML(domain+"index.html", "/about.html"),
	})

	r := run(t, NewSitemap(testConfig()), s)
	assert.Equal(t, []string{"Non-absolute or wrong-domain sitemap URL: /about.html"}, r.Failures)
	assert.Equal(t, "Sitemap URL format check failed", r.Lines()[0])
}

func TestSitemapMissingPages(t *testing.T) {
	domain := testConfig().CanonicalDomain
	s := newSite(t, map[string]string{
		"index.html":  "",
		"zeta.html":   "",
		"about.html":  "",
		"sitemap.xml": sitemapXML(domain + "index.html"),
	})

	r := run(t, NewSitemap(testConfig()), s)
	assert.Equal(t, []string{
		"Missing sitemap URL: " + domain + "about.html",
		"Missing sitemap URL: " + domain + "zeta.html",
	}, r.Failures)
	assert.Equal(t, "Sitemap coverage check failed", r.Lines()[0])
}

func TestSitemapMissingOrInvalid(t *testing.T) {
	s := newSite(t, map[string]string{"index.html": ""})
	r := run(t, NewSitemap(testConfig()), s)
	assert.Equal(t, "Missing sitemap.xml", r.String())

	s = newSite(t, map[string]string{"sitemap.xml": `<urlset><url><loc>x</loc></url></urlset>`})
	r = run(t, NewSitemap(testConfig()), s)
	assert.False(t, r.Passed())
	assert.Contains(t, r.String(), "namespace")
}
