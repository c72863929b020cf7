package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of distill.URLFrontier.
type URLFrontier struct {
	PushFn func(link distill.Link) bool
	PopFn  func() (distill.Link, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link distill.Link) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (distill.Link, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ distill.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of distill.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ distill.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of distill.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}

var _ distill.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of distill.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
