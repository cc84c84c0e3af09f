package checks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLinksReportsBrokenLocalTargets(t *testing.T) {
	s := newSite(t, map[string]string{
		"index.html": `<html><head>
<link rel="stylesheet" href="css/site.css">
<script src="js/missing.js"></script>
</head><body>
<a href="about.html#team">About</a>
<a href="about.html?ref=nav">About again</a>
<a href="nowhere.html">Broken</a>
<a href="https://example.com/">External</a>
<a href="mailto:hi@example.com">Mail</a>
<a href="#top">Top</a>
<a href="?only=query">Query only</a>
<a href="Further%20Sources/guide.pdf">Guide</a>
</body></html>`,
		"about.html":                `<a href="index.html">Home</a>`,
		"css/site.css":              "body{}",
		"Further Sources/guide.pdf": "%PDF-1.4",
	})

	r := run(t, NewLinks(testConfig()), s)

	want := []string{"index.html: js/missing.js", "index.html: nowhere.html"}
	if diff := cmp.Diff(want, r.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Broken local links found:", r.Lines()[0])
	assert.Equal(t, "- index.html: js/missing.js", r.Lines()[1])
}

func TestLinksOK(t *testing.T) {
	s := newSite(t, map[string]string{
		"index.html": `<a href="index.html">Self</a>`,
	})
	r := run(t, NewLinks(testConfig()), s)
	assert.True(t, r.Passed())
	assert.Equal(t, []string{"Local links OK"}, r.Lines())
}

func TestStripFragmentAndQuery(t *testing.T) {
	tests := map[string]string{
		"a.html#x?y": "a.html",
		"a.html?y#x": "a.html",
		"#only":      "",
		"plain.html": "plain.html",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripFragmentAndQuery(in), in)
	}
}
