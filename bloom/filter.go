// Package bloom provides probabilistic URL deduplication for the scraper.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter remembers which URLs the scraper has already queued.
// It is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a Filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// AddIfAbsent records url and reports whether it was new.
// A false positive makes a new URL look seen, never the reverse.
func (f *Filter) AddIfAbsent(url string) bool {
	return !f.f.TestAndAddString(url)
}

// Seen reports whether url might have been added.
func (f *Filter) Seen(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
