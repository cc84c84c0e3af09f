package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

type copyRule struct {
	re      *regexp.Regexp
	message string
}

// CopyStyle flags hype phrases and vague copy in page source.
type CopyStyle struct {
	rules []copyRule
	err   error
}

// NewCopyStyle compiles the configured rules. A bad pattern surfaces as an
// error from Run.
func NewCopyStyle(cfg *config.Config) *CopyStyle {
	c := &CopyStyle{}
	for i, r := range cfg.CopyStyle.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			c.err = fmt.Errorf("copy_style.rules[%d]: %w", i, err)
			return c
		}
		c.rules = append(c.rules, copyRule{re: re, message: r.Message})
	}
	return c
}

func (c *CopyStyle) Name() string        { return "copy-style" }
func (c *CopyStyle) Description() string { return "Banned hype phrases and vague copy" }

func (c *CopyStyle) Run(ctx context.Context, s *site.Site) (*Report, error) {
	if c.err != nil {
		return nil, c.err
	}
	report := &Report{Check: c.Name(), Title: "Copy style violations found:"}

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
		for _, v := range c.Lint(text) {
			report.Failf("%s:%d: '%s' -> %s", filepath.Base(page), v.Line, v.Match, v.Message)
		}
	}

	report.Summary = "Copy style checks OK."
	return report, nil
}

// Violation is one rule match.
type Violation struct {
	Line    int
	Match   string
	Message string
}

// Lint applies every rule to text. Results are grouped by rule, in rule
// order, then by position.
func (c *CopyStyle) Lint(text string) []Violation {
	var out []Violation
	for _, rule := range c.rules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			out = append(out, Violation{
				Line:    lineAt(text, loc[0]),
				Match:   text[loc[0]:loc[1]],
				Message: rule.message,
			})
		}
	}
	return out
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
