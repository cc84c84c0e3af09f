package checks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/site"
)

// Video validates the video library manifest that drives the caption and
// transcript pipeline.
type Video struct {
	cfg *config.Config
}

// NewVideo returns the video manifest check.
func NewVideo(cfg *config.Config) *Video {
	return &Video{cfg: cfg}
}

func (c *Video) Name() string        { return "video" }
func (c *Video) Description() string { return "Video library manifest metadata" }

func (c *Video) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "Video pipeline checks failed:"}
	manifest := s.Path(c.cfg.Video.Manifest)
	name := path.Base(c.cfg.Video.Manifest)

	data, err := os.ReadFile(manifest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fatal(report, "Missing video library manifest: %s", manifest), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", manifest, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return fatal(report, "Invalid JSON in %s: %v", manifest, err), nil
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fatal(report, "Invalid JSON in %s: unexpected data after top-level value", manifest), nil
	}

	obj, _ := payload.(map[string]any)
	items, ok := obj["items"].([]any)
	if !ok || len(items) == 0 {
		return fatal(report, "%s must include a non-empty 'items' array.", name), nil
	}

	allowed := make(map[string]bool, len(c.cfg.Video.AllowedTranscriptStatus))
	for _, st := range c.cfg.Video.AllowedTranscriptStatus {
		allowed[st] = true
	}

	seen := make(map[string]bool)
	for i, raw := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		item, ok := raw.(map[string]any)
		if !ok {
			report.Failf("%s: item must be an object", prefix)
			continue
		}

		id := field(item, "id")
		switch {
		case id == "":
			report.Failf("%s: missing id", prefix)
		case seen[id]:
			report.Failf("%s: duplicate id '%s'", prefix, id)
		default:
			seen[id] = true
		}

		for _, f := range []string{"title", "module", "url", "fallback_reading"} {
			if field(item, f) == "" {
				report.Failf("%s: missing %s", prefix, f)
			}
		}

		if u := field(item, "url"); u != "" && !isAbsoluteHTTP(u) {
			report.Failf("%s: url must be absolute", prefix)
		}

		if fb := field(item, "fallback_reading"); fb != "" && !isAbsoluteHTTP(fb) && !c.isKnownAsset(fb) {
			report.Failf("%s: fallback_reading should be an absolute URL or known local asset", prefix)
		}

		if checked, _ := item["captions_checked"].(bool); !checked {
			report.Failf("%s: captions_checked must be true", prefix)
		}

		status := strings.ToLower(field(item, "transcript_status"))
		if !allowed[status] {
			report.Failf("%s: invalid transcript_status '%s'", prefix, status)
		}
		if status != "none" && field(item, "transcript_url") == "" {
			report.Failf("%s: transcript_url required when transcript_status is not 'none'", prefix)
		}
	}

	report.Summary = "Video pipeline checks OK."
	return report, nil
}

func (c *Video) isKnownAsset(ref string) bool {
	ext := strings.ToLower(path.Ext(ref))
	for _, suffix := range c.cfg.Video.AllowedFallbackSuffixes {
		if ext == strings.ToLower(suffix) {
			return true
		}
	}
	return false
}

func isAbsoluteHTTP(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// field returns a manifest value as trimmed text. Missing and null values
// are empty; numbers keep their JSON spelling.
func field(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
}
