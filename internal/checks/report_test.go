package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportLines(t *testing.T) {
	r := &Report{Title: "Things failed:", Summary: "All good"}
	assert.True(t, r.Passed())
	assert.Equal(t, []string{"All good"}, r.Lines())

	r.Failf("%s: %d", "a.html", 3)
	assert.False(t, r.Passed())
	assert.Equal(t, []string{"Things failed:", " - a.html: 3"}, r.Lines())

	r.Compact = true
	assert.Equal(t, "Things failed:\n- a.html: 3", r.String())
}

func TestFatalReportPrintsBare(t *testing.T) {
	r := fatal(&Report{Title: "ignored"}, "Missing %s", "thing")
	assert.Equal(t, []string{"Missing thing"}, r.Lines())
	assert.False(t, r.Passed())
}

func TestAdvisoryLinesCapWarnings(t *testing.T) {
	r := &Report{
		Advisory:      true,
		Summary:       "score",
		WarningsTitle: "Warnings:",
		NoWarnings:    "Warnings: none",
		MaxWarnings:   2,
	}
	assert.Equal(t, []string{"score", "Warnings: none"}, r.Lines())

	r.Warnf("one")
	r.Warnf("two")
	r.Warnf("three")
	assert.Equal(t, []string{"score", "Warnings:", " - one", " - two"}, r.Lines())
	assert.True(t, r.Passed(), "warnings never fail")
}

func TestRegistry(t *testing.T) {
	reg := Default()

	c, err := reg.Lookup("a11y", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "accessibility", c.Name())

	_, err = reg.Lookup("spelling", testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown check "spelling"`)

	names := reg.Names()
	assert.Equal(t, "links", names[0])
	for _, name := range []string{"ux", "video", "pdfs", "sources", "launch", "console", "canonical", "sitemap", "headers", "copy-style", "external-links"} {
		assert.Contains(t, names, name)
	}

	for _, info := range reg.List() {
		c, err := reg.Lookup(info.Name, testConfig())
		require.NoError(t, err)
		assert.Equal(t, info.Name, c.Name(), "registered name matches checker name")
	}
}

func TestPlan(t *testing.T) {
	assert.Equal(t, []string{"links"}, Plan("links", false))
	assert.Equal(t, []string{"links", "external-links"}, Plan("links", true))
	assert.Equal(t, []string{"sitemap"}, Plan("sitemap", true))
}
