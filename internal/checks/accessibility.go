package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/htmlscan"
	"github.com/efinstitute/sitegate/internal/site"
)

const (
	issueMissingLang = "Missing lang attribute on <html>."
	issueMissingAlt  = "Image missing alt text."
	issueMissingHref = "Anchor missing href."
	issueButtonLabel = "Button missing accessible label (aria-label/title/text)."
	issueMissingMain = "Missing <main> landmark."
)

// Accessibility runs lightweight static accessibility heuristics.
type Accessibility struct {
	cfg *config.Config
}

// NewAccessibility returns the accessibility check.
func NewAccessibility(cfg *config.Config) *Accessibility {
	return &Accessibility{cfg: cfg}
}

func (c *Accessibility) Name() string { return "accessibility" }
func (c *Accessibility) Description() string {
	return "Static accessibility heuristics (lang, alt, labels, landmarks)"
}

func (c *Accessibility) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Accessibility check failed:"}

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
		issues, err := AuditAccessibility(text)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", filepath.Base(page), err)
		}
		for _, issue := range issues {
			report.Failf("%s: %s", filepath.Base(page), issue)
		}
	}

	report.Summary = fmt.Sprintf("Accessibility checks OK across %d HTML files.", len(pages))
	return report, nil
}

type openButton struct {
	labelled bool
	text     strings.Builder
}

// AuditAccessibility returns the accessibility issues of one document in
// the order they are encountered; the landmark issue comes last.
func AuditAccessibility(doc string) ([]string, error) {
	var (
		issues  []string
		hasMain bool
		buttons []*openButton
	)

	err := htmlscan.ScanString(doc, htmlscan.Handler{
		StartTag: func(name string, attrs htmlscan.Attrs) {
			switch name {
			case "html":
				if attrs.Value("lang") == "" {
					issues = append(issues, issueMissingLang)
				}
			case "img":
				if attrs.Value("alt") == "" {
					issues = append(issues, issueMissingAlt)
				}
			case "a":
				if strings.TrimSpace(attrs.Value("href")) == "" {
					issues = append(issues, issueMissingHref)
				}
			case "button":
				labelled := strings.TrimSpace(attrs.Value("aria-label")) != "" ||
					strings.TrimSpace(attrs.Value("title")) != ""
				buttons = append(buttons, &openButton{labelled: labelled})
			case "main":
				hasMain = true
			}
		},
		Text: func(data string) {
			if len(buttons) > 0 {
				buttons[len(buttons)-1].text.WriteString(strings.TrimSpace(data))
			}
		},
		EndTag: func(name string) {
			if name != "button" || len(buttons) == 0 {
				return
			}
			btn := buttons[len(buttons)-1]
			buttons = buttons[:len(buttons)-1]
			if !btn.labelled && btn.text.Len() == 0 {
				issues = append(issues, issueButtonLabel)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	if !hasMain {
		issues = append(issues, issueMissingMain)
	}
	return issues, nil
}
