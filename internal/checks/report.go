// Package checks implements the site validators. Each check is a single
// linear pass over local files that produces a Report; findings are data,
// and a returned error means the check could not run at all.
package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// Report is the outcome of one check.
type Report struct {
	Check string
	// Title heads the failure list, e.g. "Broken local links found:".
	// Without a title failures print bare.
	Title    string
	Failures []string
	// Warnings are advisory and never fail a check.
	Warnings []string
	// Summary is the success line, or the score line for advisory checks.
	Summary string
	// Compact prefixes each failure with "- " rather than " - ".
	Compact bool

	// Advisory reports always print the summary followed by their warnings.
	Advisory      bool
	WarningsTitle string
	NoWarnings    string
	MaxWarnings   int
}

// Passed reports whether the check found nothing blocking.
func (r *Report) Passed() bool {
	return r != nil && len(r.Failures) == 0
}

// Failf appends a formatted failure.
func (r *Report) Failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Warnf appends a formatted warning.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Lines renders the report as the plain-text lines a check prints.
func (r *Report) Lines() []string {
	if r == nil {
		return nil
	}
	if r.Advisory {
		return r.advisoryLines()
	}
	var lines []string
	if len(r.Failures) > 0 && r.Title == "" {
		return append(lines, r.Failures...)
	}
	if len(r.Failures) > 0 {
		lines = append(lines, r.Title)
		bullet := " - "
		if r.Compact {
			bullet = "- "
		}
		for _, f := range r.Failures {
			lines = append(lines, bullet+f)
		}
		return lines
	}
	if r.Summary != "" {
		lines = append(lines, r.Summary)
	}
	return lines
}

func (r *Report) advisoryLines() []string {
	lines := []string{r.Summary}
	if len(r.Warnings) == 0 {
		return append(lines, r.NoWarnings)
	}
	lines = append(lines, r.WarningsTitle)
	warnings := r.Warnings
	if r.MaxWarnings > 0 && len(warnings) > r.MaxWarnings {
		warnings = warnings[:r.MaxWarnings]
	}
	for _, w := range warnings {
		lines = append(lines, " - "+w)
	}
	return lines
}

// fatal replaces r's findings with a single headline failure, used when a
// check cannot get far enough to itemize anything.
func fatal(r *Report, format string, args ...any) *Report {
	r.Title = ""
	r.Failures = []string{fmt.Sprintf(format, args...)}
	return r
}

// String joins Lines with newlines.
func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Checker is a single validator.
type Checker interface {
	Name() string
	Description() string
	Run(ctx context.Context, s *site.Site) (*Report, error)
}

// Factory builds a checker bound to a config.
type Factory func(cfg *config.Config, logger *zap.Logger) Checker

type registration struct {
	name        string
	aliases     []string
	description string
	factory     Factory
}

// Registry maps check names to factories.
type Registry struct {
	byName  map[string]*registration
	ordered []*registration
	logger  *zap.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*registration), logger: zap.NewNop()}
}

// WithLogger sets the logger handed to checks that log.
func (r *Registry) WithLogger(logger *zap.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Register adds a check under name and optional aliases.
func (r *Registry) Register(name, description string, factory Factory, aliases ...string) {
	reg := &registration{name: name, aliases: aliases, description: description, factory: factory}
	r.ordered = append(r.ordered, reg)
	r.byName[name] = reg
	for _, a := range aliases {
		r.byName[a] = reg
	}
}

// Lookup builds the checker registered under name or one of its aliases.
func (r *Registry) Lookup(name string, cfg *config.Config) (Checker, error) {
	reg, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown check %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return reg.factory(cfg, r.logger), nil
}

// Has reports whether name (or an alias) is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns canonical check names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, reg := range r.ordered {
		names = append(names, reg.name)
	}
	return names
}

// Info describes a registered check.
type Info struct {
	Name        string
	Aliases     []string
	Description string
}

// List returns registered checks sorted by name.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.ordered))
	for _, reg := range r.ordered {
		infos = append(infos, Info{Name: reg.name, Aliases: reg.aliases, Description: reg.description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Plan returns the checks to run for name. When name is links and external
// is set, the external link check runs right after it.
func Plan(name string, external bool) []string {
	if name == "links" && external {
		return []string{"links", "external-links"}
	}
	return []string{name}
}

// Default is the registry with every built-in check.
func Default() *Registry {
	r := NewRegistry()
	r.Register("links", "Local links, scripts and stylesheets resolve to files",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewLinks(cfg) })
	r.Register("external-links", "External http(s) links answer without an error status",
		func(cfg *config.Config, logger *zap.Logger) Checker { return NewExternalLinks(cfg, logger) })
	r.Register("accessibility", "Static accessibility heuristics (lang, alt, labels, landmarks)",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewAccessibility(cfg) }, "a11y")
	r.Register("copy-style", "Banned hype phrases and vague copy",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewCopyStyle(cfg) })
	r.Register("ux", "Advisory UX audit with a structural score",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewUX(cfg) })
	r.Register("video", "Video library manifest metadata",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewVideo(cfg) })
	r.Register("pdfs", "Linked local PDFs exist and carry a PDF signature",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewPDFs(cfg) })
	r.Register("sources", "Further Sources citations and page markers",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewSources(cfg) })
	r.Register("launch", "Launch blockers visible from the repository",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewLaunch(cfg) })
	r.Register("console", "console.log/debugger statements in js/*.js",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewConsole(cfg) })
	r.Register("canonical", "Canonical link tags match the published URL",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewCanonical(cfg) })
	r.Register("sitemap", "sitemap.xml covers every page with absolute URLs",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewSitemap(cfg) })
	r.Register("headers", "netlify.toml sets the required security headers",
		func(cfg *config.Config, _ *zap.Logger) Checker { return NewHeaders(cfg) })
	return r
}
