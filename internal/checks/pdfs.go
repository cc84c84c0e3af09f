package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/efinstitute/sitegate/internal/config"
	"github.com/efinstitute/sitegate/internal/htmlscan"
	"github.com/efinstitute/sitegate/internal/site"
)

var pdfLinkAttrs = []htmlscan.LinkAttr{
	{Tag: "a", Attr: "href"},
	{Tag: "iframe", Attr: "href"},
	{Tag: "embed", Attr: "href"},
	{Tag: "iframe", Attr: "src"},
	{Tag: "embed", Attr: "src"},
}

var pdfMagic = []byte("%PDF-")

// PDFs verifies that linked local PDFs exist and start with a PDF header.
type PDFs struct {
	cfg *config.Config
}

// NewPDFs returns the PDF integrity check.
func NewPDFs(cfg *config.Config) *PDFs {
	return &PDFs{cfg: cfg}
}

func (c *PDFs) Name() string        { return "pdfs" }
func (c *PDFs) Description() string { return "Linked local PDFs exist and carry a PDF signature" }

func isLocalPDF(target string) bool {
	l := strings.ToLower(strings.TrimSpace(target))
	if !strings.HasSuffix(l, ".pdf") {
		return false
	}
	return !isNonLocal(l)
}

func (c *PDFs) Run(ctx context.Context, s *site.Site) (*Report, error) {
	report := &Report{Check: c.Name(), Title: "PDF checks failed:"}

	pages, err := s.HTMLPages()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := site.ReadFileText(page)
		if err != nil {
			return nil, err
		}
		links, err := htmlscan.Links(text, pdfLinkAttrs)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			target := stripFragmentAndQuery(link.Value)
			if target == "" || !isLocalPDF(target) {
				continue
			}
			abs := filepath.Clean(s.Path(target))
			if seen[abs] {
				continue
			}
			seen[abs] = true
			if problem := inspectPDF(abs, target); problem != "" {
				report.Failures = append(report.Failures, problem)
			}
		}
	}

	report.Summary = fmt.Sprintf("PDF checks OK across %d local PDF assets.", len(seen))
	return report, nil
}

// inspectPDF returns a failure for target, or "" when the file is a PDF.
func inspectPDF(path, target string) string {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Sprintf("Missing PDF: %s", target)
		}
		return fmt.Sprintf("Unreadable PDF: %s (%v)", target, err)
	}
	defer f.Close()

	sig := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(f, sig)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Sprintf("Unreadable PDF: %s (%v)", target, err)
	}
	if !bytes.Equal(sig[:n], pdfMagic) {
		return fmt.Sprintf("Invalid PDF signature: %s", target)
	}
	return ""
}
