// Package update checks GitHub for a newer sitegate release.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultAPI is the GitHub REST endpoint releases are looked up on.
const DefaultAPI = "https://api.github.com"

// Result holds the outcome of an update check.
type Result struct {
	Latest    string // latest version tag (e.g. "0.4.0")
	Current   string // current running version
	UpdateURL string // URL to the release page
}

// NeedsUpdate returns true if the latest version is newer than current.
func (r *Result) NeedsUpdate() bool {
	return r != nil && compareVersions(r.Latest, r.Current) > 0
}

// ghRelease is the minimal GitHub release JSON we care about.
type ghRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the latest release of one repository.
type Checker struct {
	API    string
	Owner  string
	Repo   string
	Client *http.Client
}

// NewChecker returns a Checker for owner/repo against the public GitHub API
// with a short timeout.
func NewChecker(owner, repo string) *Checker {
	return &Checker{
		API:    DefaultAPI,
		Owner:  owner,
		Repo:   repo,
		Client: &http.Client{Timeout: 3 * time.Second},
	}
}

// Check compares the latest release with currentVersion.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(c.API, "/"), c.Owner, c.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to query releases: HTTP %d", resp.StatusCode)
	}

	var rel ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to parse release: %w", err)
	}

	return &Result{
		Latest:    strings.TrimPrefix(rel.TagName, "v"),
		Current:   strings.TrimPrefix(currentVersion, "v"),
		UpdateURL: rel.HTMLURL,
	}, nil
}

// compareVersions compares two semver-ish strings (major.minor.patch).
// Returns >0 if a > b, <0 if a < b, 0 if equal.
func compareVersions(a, b string) int {
	ap := parseVersion(a)
	bp := parseVersion(b)
	for i := 0; i < 3; i++ {
		if ap[i] != bp[i] {
			return ap[i] - bp[i]
		}
	}
	return 0
}

// parseVersion splits "1.2.3" into [1, 2, 3]. Missing parts default to 0 and
// pre-release suffixes are ignored.
func parseVersion(v string) [3]int {
	var parts [3]int
	for i, s := range strings.SplitN(v, ".", 3) {
		if j := strings.IndexAny(s, "-+"); j >= 0 {
			s = s[:j]
		}
		n, _ := strconv.Atoi(s)
		parts[i] = n
	}
	return parts
}
