package crawl_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fanOutSite links the start page to n children.
func fanOutSite(n int) testSite {
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("https://example.com/docs/page%d", i+1)
	}
	return testSite{"https://example.com/docs/": links}
}

func TestCrawler_Walk(t *testing.T) {
	t.Parallel()

	t.Run("processes pages in parallel", func(t *testing.T) {
		t.Parallel()

		const numPages = 10
		const concurrency = 3

		var maxConcurrent atomic.Int32
		var current atomic.Int32

		c, m := newTestCrawler(fanOutSite(numPages))
		c.Concurrency = concurrency
		render := m.Renderer.RenderFn
		m.Renderer.RenderFn = func(ctx context.Context, url string) (*distill.Document, error) {
			n := current.Add(1)
			for {
				max := maxConcurrent.Load()
				if n <= max || maxConcurrent.CompareAndSwap(max, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			current.Add(-1)
			return render(ctx, url)
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, numPages+1, result.Saved)
		assert.Greater(t, maxConcurrent.Load(), int32(1), "pages should render concurrently")
		assert.LessOrEqual(t, maxConcurrent.Load(), int32(concurrency))
	})

	t.Run("dispatches at most max pages", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(fanOutSite(20))
		c.Concurrency = 4
		c.MaxPages = 5

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 5, result.Saved)
		assert.Len(t, m.Rendered(), 5)
	})

	t.Run("waits on the rate limiter for every page", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var domains []string

		c, _ := newTestCrawler(fanOutSite(3))
		c.Concurrency = 2
		c.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				mu.Lock()
				defer mu.Unlock()
				domains = append(domains, domain)
				return nil
			},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 4, result.Saved)
		assert.Equal(t, []string{"example.com", "example.com", "example.com", "example.com"}, domains)
	})

	t.Run("fails the page when the rate limiter gives up", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(testSite{})
		c.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(context.Context, string) error {
				return context.DeadlineExceeded
			},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Empty(t, m.Rendered())
	})

	t.Run("walks a custom frontier", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(testSite{
			"https://example.com/docs/":  {"https://example.com/docs/a", "https://example.com/docs/b"},
			"https://example.com/docs/a": {"https://example.com/docs/b"},
		})

		var queue []distill.Link
		var pushed []string
		seen := map[string]bool{}
		c.Frontier = &mock.URLFrontier{
			PushFn: func(link distill.Link) bool {
				pushed = append(pushed, link.URL)
				if seen[link.URL] {
					return false
				}
				seen[link.URL] = true
				queue = append(queue, link)
				return true
			},
			PopFn: func() (distill.Link, bool) {
				if len(queue) == 0 {
					return distill.Link{}, false
				}
				link := queue[0]
				queue = queue[1:]
				return link, true
			},
			LenFn:  func() int { return len(queue) },
			SeenFn: func(url string) bool { return seen[url] },
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Saved)
		assert.Equal(t, []string{
			"https://example.com/docs/",
			"https://example.com/docs/a",
			"https://example.com/docs/b",
		}, m.Rendered())
		assert.Equal(t, []string{
			"https://example.com/docs/",
			"https://example.com/docs/a",
			"https://example.com/docs/b",
			"https://example.com/docs/b",
		}, pushed)
	})
}
