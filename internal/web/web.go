// Package web holds the website shortcut table, search URL construction and
// best-effort browser launching.
package web

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

const searchTemplate = "https://www.google.com/search?q="

// Shortcuts is the static key -> URL table for common destinations. Keys
// are fixed at startup and kept in insertion order so that classification
// against them is deterministic.
type Shortcuts struct {
	keys []string
	urls map[string]string
}

func DefaultShortcuts() *Shortcuts {
	s := &Shortcuts{urls: make(map[string]string)}
	s.add("google", "https://www.google.com")
	s.add("youtube", "https://www.youtube.com")
	s.add("github", "https://github.com")
	s.add("gmail", "https://mail.google.com")
	return s
}

func (s *Shortcuts) add(key, u string) {
	s.keys = append(s.keys, key)
	s.urls[key] = u
}

func (s *Shortcuts) Keys() []string { return append([]string(nil), s.keys...) }

func (s *Shortcuts) Resolve(key string) (string, bool) {
	u, ok := s.urls[key]
	return u, ok
}

// SearchURL builds a search-engine URL for a percent-encoded query.
func SearchURL(query string) string {
	return searchTemplate + url.QueryEscape(query)
}

// Browser opens URLs with the platform's default handler. Launches are
// fire-and-forget: the spawned process is not waited on.
type Browser struct{}

func (Browser) OpenURL(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", u)
	case "darwin":
		cmd = exec.Command("open", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}
