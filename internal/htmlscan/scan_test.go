package htmlscan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanEventOrder(t *testing.T) {
	doc := `<HTML Lang="en"><body><img src="a.png"/><p>Fish &amp; chips</p></body></html>`

	var events []string
	err := ScanString(doc, Handler{
		StartTag: func(name string, attrs Attrs) {
			events = append(events, "start:"+name)
			if name == "html" {
				assert.Equal(t, "en", attrs.Value("lang"))
			}
		},
		EndTag: func(name string) { events = append(events, "end:"+name) },
		Text:   func(data string) { events = append(events, "text:"+data) },
	})
	require.NoError(t, err)

	want := []string{
		"start:html", "start:body",
		"start:img", "end:img",
		"start:p", "text:Fish & chips", "end:p",
		"end:body", "end:html",
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestAttrsLastDuplicateWinsAndEmptyIsPresent(t *testing.T) {
	var got Attrs
	err := ScanString(`<img alt="one" alt="two" hidden>`, Handler{
		StartTag: func(name string, attrs Attrs) { got = attrs },
	})
	require.NoError(t, err)

	v, ok := got.Get("hidden")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, got.Has("title"))
}

func TestLinksDocumentOrder(t *testing.T) {
	doc := `<link href="style.css"><script src="app.js"></script><a href="about.html">About</a><a>none</a>`
	links, err := Links(doc, []LinkAttr{{"a", "href"}, {"link", "href"}, {"script", "src"}})
	require.NoError(t, err)

	var values []string
	for _, l := range links {
		values = append(values, l.Value)
	}
	assert.Equal(t, []string{"style.css", "app.js", "about.html"}, values)
}

func TestScriptBodyIsRawText(t *testing.T) {
	var texts []string
	err := ScanString(`<script>if (a < b) { x = "<button>"; }</script>`, Handler{
		StartTag: func(name string, attrs Attrs) {
			assert.Equal(t, "script", name)
		},
		Text: func(data string) { texts = append(texts, data) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`if (a < b) { x = "<button>"; }`}, texts)
}
