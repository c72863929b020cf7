package http

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/distill"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// Ensure RobotsPolicy implements distill.RobotsPolicy at compile time.
var _ distill.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy answers robots.txt questions for any number of hosts. Each
// host's robots.txt is fetched once and cached. An unreachable or broken
// robots.txt allows everything.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string

	group singleflight.Group

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsPolicy creates a RobotsPolicy that identifies as userAgent.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewRobotsPolicy(client *http.Client, userAgent string) *RobotsPolicy {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the crawler may fetch rawURL.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	robots := p.robots(ctx, u)
	if robots == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return robots.TestAgent(path, p.userAgent)
}

// CrawlDelay returns the Crawl-delay robots.txt asks of the crawler on the
// host of rawURL, or zero.
func (p *RobotsPolicy) CrawlDelay(ctx context.Context, rawURL string) time.Duration {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return 0
	}
	robots := p.robots(ctx, u)
	if robots == nil {
		return 0
	}
	if g := robots.FindGroup(p.userAgent); g != nil {
		return g.CrawlDelay
	}
	return 0
}

// robots returns the parsed robots.txt of u's host, fetching it at most
// once. Concurrent callers for the same host share one request.
func (p *RobotsPolicy) robots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	p.mu.Lock()
	robots, ok := p.hosts[key]
	p.mu.Unlock()
	if ok {
		return robots
	}

	v, _, _ := p.group.Do(key, func() (any, error) {
		p.mu.Lock()
		robots, ok := p.hosts[key]
		p.mu.Unlock()
		if ok {
			return robots, nil
		}

		robots = p.fetch(ctx, key+"/robots.txt")
		p.mu.Lock()
		p.hosts[key] = robots
		p.mu.Unlock()
		return robots, nil
	})
	return v.(*robotstxt.RobotsData)
}

// fetch downloads and parses a robots.txt. It returns nil when the file
// cannot be retrieved or parsed.
func (p *RobotsPolicy) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	// FromResponse allows everything on 4xx and disallows everything on 5xx.
	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return robots
}
