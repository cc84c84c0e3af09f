package checks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditAccessibility(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "clean page",
			doc:  `<html lang="en"><main><img src="a.png" alt="Chart"><a href="x.html">x</a><button>Go</button></main></html>`,
			want: nil,
		},
		{
			name: "missing lang and main",
			doc:  `<html><body></body></html>`,
			want: []string{issueMissingLang, issueMissingMain},
		},
		{
			name: "empty alt and blank href",
			doc:  `<html lang="en"><main><img src="a.png" alt=""><img src="b.png"><a href="  ">x</a><a>y</a></main></html>`,
			want: []string{issueMissingAlt, issueMissingAlt, issueMissingHref, issueMissingHref},
		},
		{
			name: "button labels",
			doc: `<html lang="en"><main>
<button aria-label="Close"></button>
<button title="Menu"> </button>
<button>  </button>
<button aria-label="  "><span>  Save  </span></button>
<button/>
</main></html>`,
			want: []string{issueButtonLabel, issueButtonLabel},
		},
		{
			name: "nested button text counts for innermost only",
			doc:  `<html lang="en"><main><button><button>Inner</button></button></main></html>`,
			want: []string{issueButtonLabel},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AuditAccessibility(tt.doc)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAccessibilityReport(t *testing.T) {
	s := newSite(t, map[string]string{
		"a.html": `<html lang="en"><main></main></html>`,
		"b.html": `<html><main><img src="x.png"></main></html>`,
	})

	r := run(t, NewAccessibility(testConfig()), s)
	assert.Equal(t, []string{
		"Accessibility check failed:",
		" - b.html: Missing lang attribute on <html>.",
		" - b.html: Image missing alt text.",
	}, r.Lines())
}

func TestAccessibilityOKCountsPages(t *testing.T) {
	s := newSite(t, map[string]string{
		"a.html": `<html lang="en"><main></main></html>`,
		"b.html": `<html lang="en"><main></main></html>`,
	})
	r := run(t, NewAccessibility(testConfig()), s)
	assert.Equal(t, "Accessibility checks OK across 2 HTML files.", r.String())
}
