package checks

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

const goodVideo = `{
  "id": "a1",
  "title": "Intro",
  "module": "A",
  "url": "https://youtube.com/watch?v=1",
  "fallback_reading": "guides/intro.pdf",
  "captions_checked": true,
  "transcript_status": "YouTube_Transcript",
  "transcript_url": "https://youtube.com/watch?v=1#transcript"
}`

func TestVideoManifestOK(t *testing.T) {
	s := newSite(t, map[string]string{
		"data/video-library.json": `{"items": [` + goodVideo + `]}`,
	})
	r := run(t, NewVideo(testConfig()), s)
	assert.Equal(t, "Video pipeline checks OK.", r.String())
}

func TestVideoManifestItemFailures(t *testing.T) {
	s := newSite(t, map[string]string{
		"data/video-library.json": `{"items": [
` + goodVideo + `,
` + goodVideo + `,
"not an object",
{
  "id": null,
  "title": "  ",
  "module": 3,
  "url": "youtube.com/watch?v=2",
  "fallback_reading": "notes.docx",
  "captions_checked": "true",
  "transcript_status": "auto"
},
{
  "id": "n1",
  "title": "T",
  "module": "M",
  "url": "http://example.com/v",
  "fallback_reading": "https://example.com/r",
  "captions_checked": true,
  "transcript_status": " none "
}
]}`,
	})

	r := run(t, NewVideo(testConfig()), s)

	want := []string{
		"items[1]: duplicate id 'a1'",
		"items[2]: item must be an object",
		"items[3]: missing id",
		"items[3]: missing title",
		"items[3]: url must be absolute",
		"items[3]: fallback_reading should be an absolute URL or known local asset",
		"items[3]: captions_checked must be true",
		"items[3]: invalid transcript_status 'auto'",
		"items[3]: transcript_url required when transcript_status is not 'none'",
	}
	if diff := cmp.Diff(want, r.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Video pipeline checks failed:", r.Lines()[0])
}

func TestVideoManifestFatal(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"empty items", map[string]string{"data/video-library.json": `{"items": []}`},
			"video-library.json must include a non-empty 'items' array."},
		{"items not array", map[string]string{"data/video-library.json": `{"items": {}}`},
			"video-library.json must include a non-empty 'items' array."},
		{"top-level array", map[string]string{"data/video-library.json": `[1]`},
			"video-library.json must include a non-empty 'items' array."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSite(t, tt.files)
			r := run(t, NewVideo(testConfig()), s)
			assert.Equal(t, []string{tt.want}, r.Lines())
		})
	}
}

func TestVideoManifestMissingAndInvalid(t *testing.T) {
	s := newSite(t, map[string]string{"index.html": ""})
	r := run(t, NewVideo(testConfig()), s)
	assert.Equal(t, "Missing video library manifest: "+filepath.Join(s.Root, "data", "video-library.json"), r.String())

	s = newSite(t, map[string]string{"data/video-library.json": `{"items": [`})
	r = run(t, NewVideo(testConfig()), s)
	assert.False(t, r.Passed())
	assert.Contains(t, r.String(), "Invalid JSON in ")

	s = newSite(t, map[string]string{"data/video-library.json": `{"items": [{"id": "a"}]} {}`})
	r = run(t, NewVideo(testConfig()), s)
	assert.False(t, r.Passed())
	assert.Contains(t, r.String(), "unexpected data after top-level value")
}
