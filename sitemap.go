package distill

import (
	"context"
	"regexp"
	"strings"
)

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// crawlSkipPatterns mark links that never lead to crawlable pages.
var crawlSkipPatterns = []string{
	"javascript:", "mailto:", "tel:",
	".pdf", ".zip", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp",
	"login", "logout", "signin", "signup",
}

// SkipCrawlURL reports whether a link should not be followed: non-HTTP
// schemes, in-page anchors, binary downloads and authentication pages.
func SkipCrawlURL(rawURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if lower == "" || strings.HasPrefix(lower, "#") {
		return true
	}
	for _, p := range crawlSkipPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
