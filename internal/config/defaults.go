package config

import "time"

// Default returns the built-in configuration for the institute site.
func Default() *Config {
	return &Config{
		CanonicalDomain: "https://executivefunctioninginstitute.com/",
		IgnoredPages:    []string{"404.html"},
		RequiredHeaders: []string{
			"X-Frame-Options",
			"X-Content-Type-Options",
			"Referrer-Policy",
			"Permissions-Policy",
			"Strict-Transport-Security",
			"Content-Security-Policy",
		},
		External: ExternalConfig{
			Timeout:     Duration(10 * time.Second),
			Concurrency: 1,
			UserAgent:   "sitegate-linkcheck/1.0",
		},
		CopyStyle: CopyStyleConfig{Rules: defaultCopyRules()},
		UX:        UXConfig{MaxWarnings: 120},
		Video: VideoConfig{
			Manifest: "data/video-library.json",
			AllowedTranscriptStatus: []string{
				"youtube_transcript",
				"publisher_transcript",
				"local_transcript",
				"none",
			},
			AllowedFallbackSuffixes: []string{".pdf", ".html"},
		},
		Sources: SourcesConfig{
			RequiredPaths: []string{"Further Sources", "further-sources.html"},
			HubPage:       "further-sources.html",
			LinkFragments: []string{
				"youtube.com/watch?v=wg6cfsnmqyg",
				"youtube.com/watch?v=wmV8HQUuPEk",
				"pubmed.ncbi.nlm.nih.gov/9000892",
				"russellbarkley.org/factsheets/ADHD_EF_and_SR.pdf",
				"brownadhdclinic.com/brown-ef-model-adhd",
				"smartbutscatteredkids.com/resources/esq-r-self-report-assessment-tool",
				"efpractice.com/getreadydodone",
				"nbefc.org/executive-functioning-coach-certification",
			},
			PageMarkers: []PageMarker{
				{Page: "module-a-neuroscience.html", Marker: "Further Sources: Module A Citations"},
				{Page: "module-c-interventions.html", Marker: "Further Sources: Module C Citations"},
				{Page: "teacher-to-coach.html", Marker: "Further Sources: Business/Certification Citations"},
				{Page: "barkley-model-guide.html", Marker: "Further Sources: Barkley Citations"},
				{Page: "brown-clusters-tool.html", Marker: "Further Sources: Brown Citations"},
				{Page: "resources.html", Marker: "further-sources.html"},
			},
		},
		Launch: LaunchConfig{
			RequiredFiles: []string{
				"netlify/functions/auth.js",
				"netlify/functions/verify.js",
				"netlify/functions/stripe-webhook.js",
				"netlify/functions/sync-progress.js",
				"netlify/functions/submissions.js",
				"netlify/functions/coach-directory.js",
				"netlify/functions/ops-config.js",
				"netlify/functions/community-question.js",
				"data/video-library.json",
				"docs/roadmap-to-perfection.md",
				"docs/video-pipeline.md",
			},
			EnvExample: ".env.example",
			RequiredEnvKeys: []string{
				"EFI_CRM_WEBHOOK_URL",
				"EFI_ESP_WEBHOOK_URL",
				"EFI_DOWNLOAD_SIGNING_SECRET",
				"EFI_PURCHASE_SIGNING_SECRET",
				"SUPABASE_URL",
				"SUPABASE_ANON_KEY",
				"SUPABASE_SERVICE_ROLE_KEY",
				"GEMINI_API_KEY",
				"STRIPE_WEBHOOK_SECRET",
				"EFI_SUBMISSIONS_CRON_SECRET",
			},
			RequiredRedirects: []Redirect{
				{From: "/api/*", To: "/.netlify/functions/:splat"},
			},
			RequiredText: []TextRequirement{
				{Path: "docs/release-checklist.md", Needle: "sitegate gate"},
				{Path: "docs/roadmap-to-perfection.md", Needle: "Requires Deployment/Operator Input"},
			},
		},
		Gate: GateConfig{Steps: []GateStep{
			{Label: "js syntax", Command: []string{"node", "--check", "js/main.js", "js/auth.js", "js/esqr.js"}},
			{Label: "local link check", Check: "links", Subprocess: true},
			{Label: "accessibility check", Check: "accessibility", Subprocess: true},
			{Label: "pdf integrity check", Check: "pdfs", Subprocess: true},
			{Label: "further sources integration check", Check: "sources", Subprocess: true},
			{Label: "canonical tag consistency", Check: "canonical"},
			{Label: "sitemap coverage + absolute URLs", Check: "sitemap"},
			{Label: "netlify security headers", Check: "headers"},
		}},
		History: HistoryConfig{Dir: ".sitegate", MaxRuns: 200},
		Watch: WatchConfig{
			Debounce: Duration(300 * time.Millisecond),
			Checks:   []string{"links", "accessibility", "copy-style"},
			Dirs:     []string{".", "js", "data", "docs"},
		},
	}
}

func defaultCopyRules() []CopyRule {
	return []CopyRule{
		{`(?i)\btransform lives?\b`, "Use a concrete outcome instead of 'transform lives'."},
		{`(?i)\bbegin your journey\b`, "Use 'start the program' phrasing."},
		{`(?i)\bready to transform\b`, "Avoid hype CTA phrasing."},
		{`(?i)\bworld[- ]class\b`, "Avoid unsupported superlatives."},
		{`(?i)\bgame[- ]changer\b`, "Use specific impact language."},
		{`(?i)\bcutting[- ]edge\b`, "Use specific and testable wording."},
		{`(?i)\bholistic approach\b`, "Use concrete model language."},
		{`(?i)\bseamless experience\b`, "Use concrete UX language."},
		{`(?i)\bnext level\b`, "Avoid generic hype phrasing."},
		{`(?i)\bunlock the paid track\b`, "Prefer 'includes' or 'provides access'."},
		{`(?i)\bunlock graded assignments\b`, "Prefer 'includes graded assignments'."},
	}
}
