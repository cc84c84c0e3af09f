package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the site root when no explicit
// path is given.
const FileName = "sitegate.yaml"

// Config holds everything the checks and the release gate need to know
// about a site. Zero values never reach the checks: Load overlays the file
// on Default().
type Config struct {
	// CanonicalDomain is the absolute URL prefix every page is published under.
	CanonicalDomain string `yaml:"canonical_domain"`

	// IgnoredPages are excluded from canonical and sitemap checks.
	IgnoredPages []string `yaml:"ignored_pages"`

	// RequiredHeaders must be set in a [[headers]] block of netlify.toml.
	RequiredHeaders []string `yaml:"required_headers"`

	External  ExternalConfig  `yaml:"external"`
	CopyStyle CopyStyleConfig `yaml:"copy_style"`
	UX        UXConfig        `yaml:"ux"`
	Video     VideoConfig     `yaml:"video"`
	Sources   SourcesConfig   `yaml:"sources"`
	Launch    LaunchConfig    `yaml:"launch"`
	Gate      GateConfig      `yaml:"gate"`
	History   HistoryConfig   `yaml:"history"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ExternalConfig controls the external link check.
type ExternalConfig struct {
	// Enabled makes the links check also probe external links, as if
	// --external were given.
	Enabled bool `yaml:"enabled"`

	Timeout     Duration `yaml:"timeout"`
	Concurrency int      `yaml:"concurrency"`
	UserAgent   string   `yaml:"user_agent"`
	SkipHosts   []string `yaml:"skip_hosts"`
}

// CopyRule is a banned phrase and the guidance shown when it matches.
type CopyRule struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// CopyStyleConfig holds copy-style rules. Rules from the file are appended
// to the defaults.
type CopyStyleConfig struct {
	Rules []CopyRule `yaml:"rules"`
}

// UXConfig tunes the advisory UX audit.
type UXConfig struct {
	MaxWarnings int `yaml:"max_warnings"`
}

// VideoConfig locates the video library manifest.
type VideoConfig struct {
	Manifest                string   `yaml:"manifest"`
	AllowedTranscriptStatus []string `yaml:"allowed_transcript_status"`
	AllowedFallbackSuffixes []string `yaml:"allowed_fallback_suffixes"`
}

// PageMarker requires Marker to appear in Page.
type PageMarker struct {
	Page   string `yaml:"page"`
	Marker string `yaml:"marker"`
}

// SourcesConfig describes the Further Sources integration.
type SourcesConfig struct {
	RequiredPaths []string     `yaml:"required_paths"`
	HubPage       string       `yaml:"hub_page"`
	LinkFragments []string     `yaml:"link_fragments"`
	PageMarkers   []PageMarker `yaml:"page_markers"`
}

// Redirect is a netlify.toml [[redirects]] entry that must exist.
type Redirect struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// TextRequirement requires Needle to appear in Path.
type TextRequirement struct {
	Path   string `yaml:"path"`
	Needle string `yaml:"needle"`
}

// LaunchConfig lists launch blockers that can be verified from the tree.
type LaunchConfig struct {
	RequiredFiles     []string          `yaml:"required_files"`
	EnvExample        string            `yaml:"env_example"`
	RequiredEnvKeys   []string          `yaml:"required_env_keys"`
	RequiredRedirects []Redirect        `yaml:"required_redirects"`
	RequiredText      []TextRequirement `yaml:"required_text"`
}

// GateStep is one step of the release gate. Exactly one of Check or
// Command is set.
type GateStep struct {
	Label   string   `yaml:"label"`
	Check   string   `yaml:"check,omitempty"`
	Command []string `yaml:"command,omitempty"`

	// Subprocess runs a check through a child sitegate process instead of
	// in-process.
	Subprocess bool `yaml:"subprocess,omitempty"`
}

// GateConfig is the ordered release gate.
type GateConfig struct {
	Steps []GateStep `yaml:"steps"`
}

// HistoryConfig locates the gate run history.
type HistoryConfig struct {
	Dir     string `yaml:"dir"`
	MaxRuns int    `yaml:"max_runs"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
	Checks   []string `yaml:"checks"`
	Dirs     []string `yaml:"dirs"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load resolves the config for the site at root. path may be empty, in which
// case SITEGATE_CONFIG and then root/sitegate.yaml are tried; a missing
// implicit file is not an error. A .env file in the working directory is
// loaded first so its values can override the file.
func Load(root, path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("SITEGATE_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// merge overlays YAML data on c. Lists in the file replace the defaults,
// except copy-style rules which are appended.
func (c *Config) merge(data []byte) error {
	defaultRules := c.CopyStyle.Rules
	c.CopyStyle.Rules = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	c.CopyStyle.Rules = append(defaultRules, c.CopyStyle.Rules...)
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("SITEGATE_CANONICAL_DOMAIN")); v != "" {
		c.CanonicalDomain = v
	}
	if v := strings.TrimSpace(os.Getenv("SITEGATE_EXTERNAL_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SITEGATE_EXTERNAL_TIMEOUT %q: %w", v, err)
		}
		c.External.Timeout = Duration(d)
	}
	return nil
}

// Validate rejects configs the checks cannot run with. Gate check names are
// resolved later against the check registry.
func (c *Config) Validate() error {
	u, err := url.Parse(c.CanonicalDomain)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("canonical_domain must be an absolute http(s) URL, got %q", c.CanonicalDomain)
	}
	if !strings.HasSuffix(c.CanonicalDomain, "/") {
		return fmt.Errorf("canonical_domain must end with '/', got %q", c.CanonicalDomain)
	}
	if c.External.Timeout <= 0 {
		return fmt.Errorf("external.timeout must be positive")
	}
	if c.External.Concurrency < 1 {
		return fmt.Errorf("external.concurrency must be at least 1")
	}
	for i, rule := range c.CopyStyle.Rules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("copy_style.rules[%d]: invalid pattern: %w", i, err)
		}
	}
	for i, step := range c.Gate.Steps {
		if strings.TrimSpace(step.Label) == "" {
			return fmt.Errorf("gate.steps[%d]: label is required", i)
		}
		hasCheck := step.Check != ""
		hasCommand := len(step.Command) > 0
		if hasCheck == hasCommand {
			return fmt.Errorf("gate.steps[%d] (%s): exactly one of check or command is required", i, step.Label)
		}
		if hasCommand && step.Subprocess {
			return fmt.Errorf("gate.steps[%d] (%s): subprocess only applies to checks", i, step.Label)
		}
	}
	if c.History.MaxRuns < 1 {
		return fmt.Errorf("history.max_runs must be at least 1")
	}
	return nil
}

// IsIgnoredPage reports whether name is excluded from canonical and sitemap checks.
func (c *Config) IsIgnoredPage(name string) bool {
	for _, p := range c.IgnoredPages {
		if p == name {
			return true
		}
	}
	return false
}

// HistoryDir returns the absolute history directory for a site root.
func (c *Config) HistoryDir(root string) string {
	if filepath.IsAbs(c.History.Dir) {
		return c.History.Dir
	}
	return filepath.Join(root, filepath.FromSlash(c.History.Dir))
}
