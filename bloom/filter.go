// Package bloom tracks visited URLs using a Bloom filter.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// VisitedSet remembers the URLs a crawl has scheduled.
// URLs that differ only in fragment, host case or a trailing slash are
// treated as the same page. False positives are possible, so a page may
// occasionally be skipped; a page is never scheduled twice.
//
// VisitedSet is not safe for concurrent use; the crawl coordinator is its
// only writer.
type VisitedSet struct {
	f *bloom.BloomFilter
}

// NewVisitedSet creates a set sized for n expected URLs with the given
// false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks url as visited. It returns false if url was already marked.
func (s *VisitedSet) Visit(rawURL string) bool {
	return !s.f.TestAndAddString(Key(rawURL))
}

// Visited returns true if url might have been marked.
func (s *VisitedSet) Visited(rawURL string) bool {
	return s.f.TestString(Key(rawURL))
}

// Len returns the approximate number of marked URLs.
func (s *VisitedSet) Len() int {
	return int(s.f.ApproximatedSize())
}

// Key returns the form of url used for deduplication.
func Key(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	}
	return u.String()
}
