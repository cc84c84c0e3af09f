// Package linkcheck probes external URLs: a HEAD request with a fixed
// timeout, falling back once to GET when HEAD fails. There is no other retry.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/efinstitute/sitegate/internal/logging"
)

// Result is the outcome of probing one URL.
type Result struct {
	URL        string
	StatusCode int
	Method     string // method of the final attempt
	Err        error
}

// OK reports whether the URL answered with a non-error status.
func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode > 0 && r.StatusCode < 400
}

// Reason is a short description of why a URL failed.
func (r Result) Reason() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprintf("HTTP %d", r.StatusCode)
}

// Options configures a Prober.
type Options struct {
	Timeout     time.Duration
	Concurrency int
	UserAgent   string
	SkipHosts   []string
	Client      *http.Client
	Logger      *zap.Logger
}

// Prober checks external URLs.
type Prober struct {
	client      *http.Client
	concurrency int
	userAgent   string
	skip        map[string]bool
	logger      *zap.Logger
}

// New returns a Prober. A zero Timeout defaults to 10s and a zero
// Concurrency to sequential probing.
func New(opts Options) *Prober {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := opts.Logger
	logger = logging.OrNop(logger)
	skip := make(map[string]bool, len(opts.SkipHosts))
	for _, h := range opts.SkipHosts {
		skip[strings.ToLower(h)] = true
	}
	return &Prober{
		client:      client,
		concurrency: concurrency,
		userAgent:   opts.UserAgent,
		skip:        skip,
		logger:      logger,
	}
}

// Skipped reports whether rawURL's host is configured to be skipped.
func (p *Prober) Skipped(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return p.skip[strings.ToLower(u.Hostname())]
}

// Probe checks a single URL: HEAD first, then GET if HEAD errored or
// returned a status >= 400.
func (p *Prober) Probe(ctx context.Context, rawURL string) Result {
	res := p.do(ctx, http.MethodHead, rawURL)
	if res.OK() {
		return res
	}
	if ctx.Err() != nil {
		return res
	}
	p.logger.Debug("HEAD failed, retrying with GET",
		zap.String("url", rawURL), zap.String("reason", res.Reason()))
	return p.do(ctx, http.MethodGet, rawURL)
}

func (p *Prober) do(ctx context.Context, method, rawURL string) Result {
	res := Result{URL: rawURL, Method: method}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		res.Err = fmt.Errorf("invalid URL: %w", err)
		return res
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.StatusCode = resp.StatusCode
	return res
}

// ProbeAll probes every URL, at most Concurrency at a time, and returns the
// results sorted by URL. Skipped hosts are left out.
func (p *Prober) ProbeAll(ctx context.Context, urls []string) ([]Result, error) {
	results := make([]Result, len(urls))
	keep := make([]bool, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, u := range urls {
		if p.Skipped(u) {
			p.logger.Debug("skipping external link", zap.String("url", u))
			continue
		}
		keep[i] = true
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Probe(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(urls))
	for i, r := range results {
		if keep[i] {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out, nil
}
