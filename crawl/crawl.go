// Package crawl orchestrates page extraction: it renders pages, runs the
// extraction pipeline over them, collects their assets and walks a site
// breadth-first or depth-first.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/distill"
)

// Crawler walks a site from a start URL and stores every page it extracts.
type Crawler struct {
	Renderer distill.Renderer
	Pipeline *Pipeline
	Pages    distill.PageStore
	Links    distill.LinkExtractor

	// Optional collaborators.
	Assets       *AssetCollector
	Index        distill.PageIndex
	Sitemaps     distill.SitemapService
	Robots       distill.RobotsPolicy
	RateLimiter  distill.DomainLimiter
	TokenCounter distill.TokenCounter
	Logger       *slog.Logger

	// Frontier replaces the default bloom-backed queue. Order is ignored
	// when it is set.
	Frontier distill.URLFrontier

	// Order is the traversal order; the zero value is breadth-first.
	Order distill.CrawlOrder
	// MaxDepth is the number of link hops followed from the start URL.
	MaxDepth int
	// MaxPages caps dispatched pages. Zero means DefaultMaxPages.
	MaxPages int
	// AllowExternal lets the crawl leave the start URL's host.
	AllowExternal bool
	// Filter restricts followed links and sitemap URLs.
	Filter *distill.URLFilter

	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	Saved     int
	Failed    int
	Skipped   int
	Unchanged int
	Assets    int
	Bytes     int
	Tokens    int

	// URLs lists the saved pages in completion order.
	URLs []string
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	URL       string
	Depth     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single link.
type pageResult struct {
	link    distill.Link
	page    *distill.Page
	links   []string
	tokens  int
	skipped bool
	err     error
}

// Crawl extracts startURL and the pages reachable from it within MaxDepth
// hops. A page that fails is reported and counted but never stops the
// crawl. The returned error is non-nil only for an invalid start URL or a
// canceled context; the partial Result is returned with the latter.
func (c *Crawler) Crawl(ctx context.Context, startURL string, progress ProgressFunc) (*Result, error) {
	start, err := url.Parse(startURL)
	if err != nil || (start.Scheme != "http" && start.Scheme != "https") || start.Host == "" {
		return nil, distill.Errorf(distill.EINVALID, "invalid start URL %q", startURL)
	}

	frontier := c.Frontier
	if frontier == nil {
		frontier = NewFrontier(c.Order, frontierExpectedURLs, frontierFalsePositiveRate)
	}
	frontier.Push(distill.Link{URL: start.String()})
	c.seedSitemap(ctx, start, frontier)

	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	progress(ProgressEvent{Type: ProgressStarted, URL: start.String()})

	result := &Result{URLs: []string{}}
	completed := 0
	handle := func(res *pageResult, frontier distill.URLFrontier) {
		c.enqueue(res, start, frontier)

		completed++
		event := ProgressEvent{Completed: completed, URL: res.link.URL, Depth: res.link.Depth}
		switch {
		case res.err != nil:
			result.Failed++
			event.Type, event.Error = ProgressFailed, res.err
			logger(c.Logger).Warn("page failed", "url", res.link.URL, "err", res.err)
		case res.skipped:
			result.Skipped++
			event.Type = ProgressSkipped
		default:
			if err := c.save(ctx, res, result); err != nil {
				result.Failed++
				event.Type, event.Error = ProgressFailed, err
				logger(c.Logger).Error("page not saved", "url", res.link.URL, "err", err)
			} else {
				event.Type = ProgressCompleted
			}
		}
		progress(event)
	}

	walkFrontier(ctx, frontier, c.concurrency(), c.maxPages(), c.process, handle)

	progress(ProgressEvent{Type: ProgressFinished, Completed: completed})
	return result, ctx.Err()
}

// seedSitemap queues the in-scope sitemap URLs of the start URL's site at
// depth zero. Sitemap errors are logged and the crawl goes on.
func (c *Crawler) seedSitemap(ctx context.Context, start *url.URL, frontier distill.URLFrontier) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, start.String(), c.Filter)
	if err != nil {
		logger(c.Logger).Warn("sitemap unavailable", "url", start.String(), "err", err)
		return
	}
	for _, u := range urls {
		if c.inScope(start, u) {
			frontier.Push(distill.Link{URL: u})
		}
	}
}

// process renders and extracts a single page. It runs on a worker.
func (c *Crawler) process(ctx context.Context, link distill.Link) pageResult {
	res := pageResult{link: link}

	if c.Robots != nil && !c.Robots.Allowed(ctx, link.URL) {
		res.skipped = true
		return res
	}

	if c.RateLimiter != nil {
		u, err := url.Parse(link.URL)
		if err != nil {
			res.err = err
			return res
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			res.err = err
			return res
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	doc, err := WithRetry(ctx, link.URL, delays, c.Logger, func(ctx context.Context) (*distill.Document, error) {
		return c.Renderer.Render(ctx, link.URL)
	})
	if err != nil {
		res.err = err
		return res
	}

	// Links come from the full page, navigation included.
	if c.Links != nil && link.Depth < c.MaxDepth {
		links, err := c.Links.ExtractLinks(doc.HTML, doc.URL)
		if err != nil {
			logger(c.Logger).Debug("no links extracted", "url", doc.URL, "err", err)
		}
		res.links = links
	}

	page, err := c.Pipeline.Process(ctx, doc)
	if err != nil {
		res.err = err
		return res
	}

	if c.Assets != nil {
		page.Assets = c.Assets.Collect(ctx, doc.HTML, doc.URL, page.Analysis)
		page.Metadata.AttachAssets(page.Assets)
	}

	res.tokens = page.Metadata.EstimatedTokens
	if c.TokenCounter != nil {
		if n, err := c.TokenCounter.CountTokens(ctx, page.Content); err == nil {
			res.tokens = n
		}
	}

	res.page = page
	return res
}

// enqueue pushes the in-scope links of a finished page one level deeper.
func (c *Crawler) enqueue(res *pageResult, start *url.URL, frontier distill.URLFrontier) {
	if res.link.Depth >= c.MaxDepth {
		return
	}
	for _, u := range res.links {
		if c.inScope(start, u) {
			frontier.Push(distill.Link{URL: u, Depth: res.link.Depth + 1})
		}
	}
}

// save stores a finished page and records it in the index.
func (c *Crawler) save(ctx context.Context, res *pageResult, result *Result) error {
	page := res.page
	if err := c.Pages.Save(ctx, page); err != nil {
		return err
	}

	if c.Index != nil {
		c.index(ctx, page, result)
	}

	result.Saved++
	result.Assets += len(page.Assets)
	result.Bytes += len(page.Content)
	result.Tokens += res.tokens
	result.URLs = append(result.URLs, page.URL())
	return nil
}

// index compares the page with its last recorded version and records the
// new one. Index errors are logged; they never fail the page.
func (c *Crawler) index(ctx context.Context, page *distill.Page, result *Result) {
	prev, err := c.Index.FindPageByURL(ctx, page.URL())
	switch {
	case err == nil && prev.ContentHash == page.Metadata.ContentHash:
		result.Unchanged++
	case err != nil && distill.ErrorCode(err) != distill.ENOTFOUND:
		logger(c.Logger).Warn("page index lookup failed", "url", page.URL(), "err", err)
	}

	rec := &distill.PageRecord{
		URL:         page.URL(),
		Title:       page.Metadata.Title,
		ContentHash: page.Metadata.ContentHash,
		Language:    page.Metadata.Language,
		CrawledAt:   page.Metadata.CrawledAt,
	}
	if err := c.Index.UpsertPage(ctx, rec); err != nil {
		logger(c.Logger).Warn("page index update failed", "url", page.URL(), "err", err)
	}
}

// inScope reports whether the crawl may follow rawURL.
func (c *Crawler) inScope(start *url.URL, rawURL string) bool {
	if distill.SkipCrawlURL(rawURL) {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if !c.AllowExternal && u.Host != start.Host {
		return false
	}
	return c.Filter.Match(rawURL)
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return 4
	}
	return c.Concurrency
}

func (c *Crawler) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return c.MaxPages
}
