package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecker(t *testing.T, h http.HandlerFunc) *Checker {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewChecker("efinstitute", "sitegate")
	c.API = srv.URL
	c.Client = srv.Client()
	return c
}

func TestCheckFindsNewerRelease(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/efinstitute/sitegate/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v0.10.0","html_url":"https://github.com/efinstitute/sitegate/releases/v0.10.0"}`))
	})

	res, err := c.Check(context.Background(), "v0.3.0")
	require.NoError(t, err)
	assert.Equal(t, "0.10.0", res.Latest)
	assert.Equal(t, "0.3.0", res.Current)
	assert.True(t, res.NeedsUpdate())
}

func TestCheckHTTPError(t *testing.T) {
	c := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := c.Check(context.Background(), "0.3.0")
	require.ErrorContains(t, err, "HTTP 403")
}

func TestCompareVersions(t *testing.T) {
	assert.Zero(t, compareVersions("1.2.3", "1.2.3"))
	assert.Positive(t, compareVersions("1.10.0", "1.9.9"))
	assert.Negative(t, compareVersions("1.2", "1.2.1"))
	assert.Zero(t, compareVersions("2.0.0-rc1", "2.0.0"))
	assert.False(t, (*Result)(nil).NeedsUpdate())
}
