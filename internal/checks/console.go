package checks

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

var (
	consoleLogPattern = regexp.MustCompile(`\bconsole\.log\s*\(`)
	debuggerPattern   = regexp.MustCompile(`\bdebugger\b`)
)

// Console flags console.log calls and debugger statements in shipped JS.
type Console struct {
	cfg *config.Config
}

// NewConsole returns the console statement check.
func NewConsole(cfg *config.Config) *Console {
	return &Console{cfg: cfg}
}

func (c *Console) Name() string        { return "console" }
func (c *Console) Description() string { return "console.log/debugger statements in js/*.js" }

func (c *Console) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Console/debug statements found:"}

	files, err := s.Glob("js/*.js")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := site.ReadFileText(file)
		if err != nil {
			return nil, err
		}
		rel := s.Rel(file)
		for i, line := range splitLines(text) {
			if consoleLogPattern.MatchString(line) || debuggerPattern.MatchString(line) {
				report.Failures = append(report.Failures, rel+":"+strconv.Itoa(i+1)+": "+strings.TrimSpace(line))
			}
		}
	}

	report.Summary = "No console.log/debugger statements found in js/*.js"
	return report, nil
}

// splitLines splits text at every line boundary: \n, \r, \r\n, \v, \f,
// the file/group/record separators, NEL and the Unicode line and paragraph
// separators. A trailing boundary does not yield an empty last line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if !isLineBoundary(r) {
			continue
		}
		if r == '\n' && i > 0 && text[i-1] == '\r' {
			start = i + 1
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
