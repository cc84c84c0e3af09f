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

// UX is an advisory audit: it reports a structural score and warnings but
// never fails.
type UX struct {
	cfg *config.Config
}

// NewUX returns the UX audit.
func NewUX(cfg *config.Config) *UX {
	return &UX{cfg: cfg}
}

func (c *UX) Name() string        { return "ux" }
func (c *UX) Description() string { return "Advisory UX audit with a structural score" }

// uxPage is what the audit learns about one page.
type uxPage struct {
	hasSkipLink  bool
	hasMain      bool
	hasNav       bool
	hasNavToggle bool
	labelsFor    map[string]bool
	controls     []formControl
}

type formControl struct {
	id      string
	typ     string
	wrapped bool
}

var unlabelledInputTypes = map[string]bool{"hidden": true, "submit": true, "button": true}

func scanUXPage(doc string) (*uxPage, error) {
	p := &uxPage{labelsFor: make(map[string]bool)}
	labelDepth := 0

	err := htmlscan.ScanString(doc, htmlscan.Handler{
		StartTag: func(name string, attrs htmlscan.Attrs) {
			switch name {
			case "a":
				if strings.Contains(attrs.Value("class"), "skip-link") {
					p.hasSkipLink = true
				}
			case "main":
				p.hasMain = true
			case "nav":
				p.hasNav = true
			case "button":
				if strings.Contains(attrs.Value("class"), "nav__toggle") {
					p.hasNavToggle = true
				}
			case "label":
				if id, ok := attrs.Get("for"); ok {
					p.labelsFor[id] = true
				}
				labelDepth++
			case "input", "select", "textarea":
				if unlabelledInputTypes[attrs.Value("type")] {
					return
				}
				typ, ok := attrs.Get("type")
				if !ok {
					typ = "text"
				}
				p.controls = append(p.controls, formControl{
					id:      attrs.Value("id"),
					typ:     typ,
					wrapped: labelDepth > 0,
				})
			}
		},
		EndTag: func(name string) {
			if name == "label" && labelDepth > 0 {
				labelDepth--
			}
		},
	})
	return p, err
}

func (c *UX) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{
		Check:         c.Name(),
		Advisory:      true,
		WarningsTitle: "UX audit warnings:",
		NoWarnings:    "UX audit warnings: none",
		MaxWarnings:   c.cfg.UX.MaxWarnings,
	}

	pages, err := s.HTMLPages()
	if err != nil {
		return nil, err
	}

	var passes, total int
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := site.ReadFileText(page)
		if err != nil {
			return nil, err
		}
		p, err := scanUXPage(text)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", filepath.Base(page), err)
		}
		name := filepath.Base(page)

		total += 2
		if p.hasSkipLink {
			passes++
		} else {
			report.Warnf("%s: missing skip link", name)
		}
		if p.hasMain {
			passes++
		} else {
			report.Warnf("%s: missing <main> landmark", name)
		}
		if p.hasNav {
			total++
			if p.hasNavToggle {
				passes++
			} else {
				report.Warnf("%s: missing mobile nav toggle", name)
			}
		}

		for _, ctl := range p.controls {
			switch {
			case ctl.wrapped:
			case ctl.id == "":
				report.Warnf("%s: %s input missing id", name, ctl.typ)
			case !p.labelsFor[ctl.id]:
				report.Warnf("%s: input #%s missing explicit <label for>", name, ctl.id)
			}
		}
	}

	score := 100.0
	if total > 0 {
		score = float64(passes) / float64(total) * 100.0
	}
	report.Summary = fmt.Sprintf("UX audit baseline score: %.1f%% (%d/%d structural checks passed)", score, passes, total)
	return report, nil
}
