package checks

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/efinstitute/sitegate/internal/site"
)

const netlifyConfig = "netlify.toml"

// netlifyFile is the part of netlify.toml the checks look at.
type netlifyFile struct {
	Redirects []netlifyRedirect `toml:"redirects"`
	Headers   []netlifyHeaders  `toml:"headers"`
}

type netlifyRedirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status"`
}

type netlifyHeaders struct {
	For    string         `toml:"for"`
	Values map[string]any `toml:"values"`
}

func loadNetlify(s *site.Site) (*netlifyFile, error) {
	text, err := s.ReadText(netlifyConfig)
	if err != nil {
		return nil, err
	}
	var nf netlifyFile
	if _, err := toml.Decode(text, &nf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", netlifyConfig, err)
	}
	return &nf, nil
}

func (nf *netlifyFile) hasRedirect(from, to string) bool {
	for _, r := range nf.Redirects {
		if r.From == from && r.To == to {
			return true
		}
	}
	return false
}

// headerSet reports whether any [[headers]] block sets name to a string.
func (nf *netlifyFile) headerSet(name string) bool {
	for _, h := range nf.Headers {
		if _, ok := h.Values[name].(string); ok {
			return true
		}
	}
	return false
}
