// Package htmlscan walks HTML documents as a stream of start tags, end tags
// and text, the way a lightweight validator wants to see them.
package htmlscan

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Attrs holds a tag's attributes. Names are lower-case; when an attribute
// is repeated the last value wins.
type Attrs map[string]string

// Get returns the attribute value and whether it was present at all.
func (a Attrs) Get(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// Value returns the attribute value, or "" when absent.
func (a Attrs) Value(name string) string {
	return a[name]
}

// Has reports whether the attribute is present.
func (a Attrs) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Handler receives scan events. Any field may be nil.
type Handler struct {
	StartTag func(name string, attrs Attrs)
	EndTag   func(name string)
	Text     func(data string)
}

// Scan tokenizes r and dispatches events to h. A self-closing tag is
// reported as a start tag immediately followed by its end tag.
func Scan(r io.Reader, h Handler) error {
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return nil
			}
			return z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if h.StartTag != nil {
				h.StartTag(tok.Data, attrsOf(tok))
			}
			if tt == html.SelfClosingTagToken && h.EndTag != nil {
				h.EndTag(tok.Data)
			}
		case html.EndTagToken:
			if h.EndTag != nil {
				name, _ := z.TagName()
				h.EndTag(string(name))
			}
		case html.TextToken:
			if h.Text != nil {
				h.Text(string(z.Text()))
			}
		}
	}
}

// ScanString is Scan over an in-memory document.
func ScanString(doc string, h Handler) error {
	return Scan(strings.NewReader(doc), h)
}

func attrsOf(tok html.Token) Attrs {
	attrs := make(Attrs, len(tok.Attr))
	for _, a := range tok.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}
	return attrs
}

// LinkAttr names an attribute that carries a link on a given tag.
type LinkAttr struct {
	Tag  string
	Attr string
}

// Link is one link-like attribute value found in a document.
type Link struct {
	Tag   string
	Attr  string
	Value string
}

// Links returns the values of the given tag/attribute pairs in document order.
func Links(doc string, spec []LinkAttr) ([]Link, error) {
	want := make(map[string][]string, len(spec))
	for _, s := range spec {
		want[s.Tag] = append(want[s.Tag], s.Attr)
	}

	var links []Link
	err := ScanString(doc, Handler{
		StartTag: func(name string, attrs Attrs) {
			for _, attr := range want[name] {
				if v, ok := attrs.Get(attr); ok {
					links = append(links, Link{Tag: name, Attr: attr, Value: v})
				}
			}
		},
	})
	return links, err
}
