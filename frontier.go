package distill

import "context"

// Link is a URL scheduled for crawling.
type Link struct {
	URL string

	// Depth is the number of hops from the start URL.
	Depth int
}

// CrawlOrder selects the traversal order of a crawl.
type CrawlOrder string

// Crawl orders.
const (
	BreadthFirst CrawlOrder = "bfs"
	DepthFirst   CrawlOrder = "dfs"
)

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a link to the frontier and marks its URL as seen.
	// Returns false if the URL has already been seen.
	Push(link Link) bool

	// Pop returns the next link in crawl order.
	// Returns false if the frontier is empty.
	Pop() (Link, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RobotsPolicy decides whether a crawler may visit a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}

// LinkExtractor finds the links of a page.
type LinkExtractor interface {
	// ExtractLinks returns absolute URLs on the same host as baseURL, in
	// document order and without duplicates.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
