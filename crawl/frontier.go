package crawl

import (
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/docbot/bloom"
)

// Frontier is a first-in first-out URL queue with Bloom filter deduplication.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []string
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push normalizes rawURL and appends it to the queue.
// Returns false if the URL is not http(s) or has already been seen.
// URLs differing only by query or fragment are duplicates.
func (f *Frontier) Push(rawURL string) bool {
	u, ok := NormalizeURL(rawURL)
	if !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.AddIfAbsent(u) {
		return false
	}
	f.queue = append(f.queue, u)
	return true
}

// Pop returns the oldest queued URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued, after normalization.
func (f *Frontier) Seen(rawURL string) bool {
	u, ok := NormalizeURL(rawURL)
	if !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(u)
}

// NormalizeURL reduces rawURL to scheme://host/path.
// Returns false for non-http(s) or host-less URLs.
func NormalizeURL(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host + u.EscapedPath(), true
}

// Scope restricts a crawl to URL prefixes of the form "host/path".
// A prefix with no path admits the whole host. An empty Scope admits everything.
type Scope []string

// DefaultScope returns the prefixes crawled when none are configured.
func DefaultScope() Scope {
	return Scope{
		"handbook.gitlab.com/handbook",
		"about.gitlab.com/direction",
	}
}

// Allows reports whether rawURL falls under one of the prefixes.
func (s Scope) Allows(rawURL string) bool {
	if len(s) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, prefix := range s {
		host, path, _ := strings.Cut(prefix, "/")
		if !strings.EqualFold(u.Host, host) {
			continue
		}
		if path == "" || strings.HasPrefix(u.Path, "/"+path) {
			return true
		}
	}
	return false
}
