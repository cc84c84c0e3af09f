package checks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/efinstitute/sitegate/internal/config"
)

func launchConfig() *config.Config {
	cfg := testConfig()
	cfg.Launch = config.LaunchConfig{
		RequiredFiles:     []string{"netlify/functions/auth.js", "docs/video-pipeline.md"},
		EnvExample:        ".env.example",
		RequiredEnvKeys:   []string{"SUPABASE_URL", "GEMINI_API_KEY", "STRIPE_WEBHOOK_SECRET"},
		RequiredRedirects: []config.Redirect{{From: "/api/*", To: "/.netlify/functions/:splat"}},
		RequiredText: []config.TextRequirement{
			{Path: "docs/release-checklist.md", Needle: "sitegate gate"},
			{Path: "docs/roadmap.md", Needle: "Requires Deployment/Operator Input"},
		},
	}
	return cfg
}

const apiRedirect = `
[[redirects]]
  from = "/api/*"
  to = "/.netlify/functions/:splat"
  status = 200
`

func TestLaunchOK(t *testing.T) {
	s := newSite(t, map[string]string{
		"netlify/functions/auth.js": "export default {}",
		"docs/video-pipeline.md":    "# Pipeline",
		".env.example":              "SUPABASE_URL=\nexport GEMINI_API_KEY=\"\"\n# comment\nSTRIPE_WEBHOOK_SECRET=whsec_x\n",
		"netlify.toml":              apiRedirect,
		"docs/release-checklist.md": "Run `sitegate gate` before deploying.",
		"docs/roadmap.md":           "## Requires Deployment/Operator Input",
	})

	r := run(t, NewLaunch(launchConfig()), s)
	assert.Equal(t, "Launch blocker checks OK.", r.String())
}

func TestLaunchFailures(t *testing.T) {
	s := newSite(t, map[string]string{
		"netlify/functions/auth.js": "",
		".env.example":              "SUPABASE_URL=x\n",
		"netlify.toml":              "[[redirects]]\nfrom = \"/api/*\"\nto = \"/functions/:splat\"\n",
		"docs/release-checklist.md": "python3 scripts/release_gate.py",
	})

	r := run(t, NewLaunch(launchConfig()), s)

	want := []string{
		"Missing required file: docs/video-pipeline.md",
		"Missing env key in .env.example: GEMINI_API_KEY",
		"Missing env key in .env.example: STRIPE_WEBHOOK_SECRET",
		`Missing required redirect in netlify.toml: from = "/api/*" to = "/.netlify/functions/:splat"`,
		"Missing required config/text in docs/release-checklist.md: sitegate gate",
		"Missing required file for text check: docs/roadmap.md",
	}
	if diff := cmp.Diff(want, r.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
}

func TestLaunchMissingEnvAndNetlify(t *testing.T) {
	cfg := launchConfig()
	cfg.Launch.RequiredFiles = nil
	cfg.Launch.RequiredText = nil
	s := newSite(t, map[string]string{"index.html": ""})

	r := run(t, NewLaunch(cfg), s)
	assert.Equal(t, []string{
		"Missing .env.example",
		"Missing required file for text check: netlify.toml",
	}, r.Failures)
}
