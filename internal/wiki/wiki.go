// Package wiki looks up topic summaries via the Wikipedia REST API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// Summary is the lookup result. Exists is false when the topic has no page.
type Summary struct {
	Exists  bool
	Extract string
}

type Client struct {
	http    *http.Client
	baseURL string
	agent   string
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, e.g. for a proxied one.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL points the client at a different API root (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		agent:   "aide/1.0 (voice assistant)",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type summaryResponse struct {
	Extract string `json:"extract"`
}

// Lookup fetches the page summary for topic. A 404 means the page does not
// exist and is not an error; anything else unexpected is.
func (c *Client) Lookup(ctx context.Context, topic string) (Summary, error) {
	title := url.PathEscape(canonicalTitle(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/page/summary/"+title, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Summary{Exists: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Summary{}, fmt.Errorf("wikipedia status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Summary{}, fmt.Errorf("read summary: %w", err)
	}

	var sr summaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Summary{}, fmt.Errorf("decode summary: %w", err)
	}

	return Summary{Exists: sr.Extract != "", Extract: sr.Extract}, nil
}

// canonicalTitle applies MediaWiki title normalization: spaces become
// underscores and the first letter is uppercased. Commands arrive
// lowercased from classification, so without this every lookup would
// bounce through a redirect.
func canonicalTitle(topic string) string {
	t := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	r := []rune(t)
	if len(r) == 0 {
		return t
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
