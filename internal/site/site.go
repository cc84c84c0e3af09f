// Package site gives checks read access to a static site checked out on disk.
package site

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Site is a static site rooted at a local directory.
type Site struct {
	Root string
}

// Open returns a Site for root. Root must be an existing directory.
func Open(root string) (*Site, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open site root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", abs)
	}
	return &Site{Root: abs}, nil
}

// Path joins slash-separated rel onto the site root.
func (s *Site) Path(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// Rel returns the slash-separated path of abs relative to the site root.
// Paths outside the root are returned unchanged.
func (s *Site) Rel(abs string) string {
	rel, err := filepath.Rel(s.Root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return filepath.ToSlash(rel)
}

// Exists reports whether rel exists under the root (file or directory).
func (s *Site) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// HTMLPages returns the *.html files directly inside the root, sorted by name.
func (s *Site) HTMLPages() ([]string, error) {
	return s.Glob("*.html")
}

// Glob returns the regular files in one directory whose names match
// pattern, sorted, as absolute paths. Only the last element of pattern may
// contain wildcards; the root and the directory part are taken literally.
func (s *Site) Glob(pattern string) ([]string, error) {
	dir, base := path.Split(pattern)
	if _, err := filepath.Match(base, ""); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", pattern, err)
	}

	entries, err := os.ReadDir(s.Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", pattern, err)
	}

	var files []string
	for _, e := range entries {
		if ok, _ := filepath.Match(base, e.Name()); !ok {
			continue
		}
		full := filepath.Join(s.Path(dir), e.Name())
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, full)
	}
	sort.Strings(files)
	return files, nil
}

// ReadText reads a file as text. Invalid UTF-8 sequences are replaced with
// U+FFFD instead of failing the read.
func (s *Site) ReadText(rel string) (string, error) {
	return ReadFileText(s.Path(rel))
}

// ReadFileText reads the file at an absolute path as lossy UTF-8 text.
func ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
