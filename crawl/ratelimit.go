package crawl

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/docbot"
	"golang.org/x/time/rate"
)

var _ docbot.HostLimiter = (*HostLimiter)(nil)

// DefaultRequestsPerSecond is the per-host request rate used by the scraper.
const DefaultRequestsPerSecond = 1.0

// HostLimiter spaces requests to the same host. Hosts are compared
// case-insensitively and without their port, so "Example.com:443" and
// "example.com" share one budget. Each host gets a token bucket with a burst
// of 1: the first request is immediate, later ones wait their turn.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
}

// NewHostLimiter allows rps requests per second per host. A non-positive
// rps means DefaultRequestsPerSecond.
func NewHostLimiter(rps float64) *HostLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Limit(rps),
	}
}

// Rate returns the per-host requests per second.
func (h *HostLimiter) Rate() float64 { return float64(h.every) }

// Wait blocks until host may be requested again or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.bucket(host).Wait(ctx)
}

// Hosts returns the number of distinct hosts seen so far.
func (h *HostLimiter) Hosts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.buckets)
}

func (h *HostLimiter) bucket(host string) *rate.Limiter {
	key := hostKey(host)

	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buckets[key]
	if !ok {
		b = rate.NewLimiter(h.every, 1)
		h.buckets[key] = b
	}
	return b
}

func hostKey(host string) string {
	if name, _, err := net.SplitHostPort(host); err == nil {
		host = name
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
