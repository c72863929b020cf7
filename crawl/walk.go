package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/distill"
)

// Frontier sizing and safety limits.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// DefaultMaxPages limits the number of pages dispatched by one crawl.
	DefaultMaxPages = 1000
	// drainTimeout bounds the wait for in-flight pages after the loop stops.
	drainTimeout = 5 * time.Second
)

// walkProcessor processes a link on a worker goroutine.
type walkProcessor func(ctx context.Context, link distill.Link) pageResult

// walkResultHandler handles a finished page on the coordinator goroutine.
// It may push newly discovered links to the frontier.
type walkResultHandler func(result *pageResult, frontier distill.URLFrontier)

// walkFrontier drains frontier with a pool of concurrency workers.
//
// The calling goroutine is the coordinator: it alone pops links, dispatches
// them and handles results, so handleResult never runs concurrently with
// itself. At most maxPages links are dispatched.
func walkFrontier(
	ctx context.Context,
	frontier distill.URLFrontier,
	concurrency int,
	maxPages int,
	processURL walkProcessor,
	handleResult walkResultHandler,
) {
	workCh := make(chan distill.Link, concurrency)
	resultCh := make(chan pageResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range workCh {
				result := processURL(ctx, link)
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0
	var next *distill.Link

	pop := func() {
		if next == nil && dispatched < maxPages {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
	}
	pop()

loop:
	for {
		if next == nil && pending == 0 {
			break loop
		}
		if ctx.Err() != nil {
			break loop
		}

		if next != nil {
			select {
			case <-ctx.Done():
				break loop
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handleResult(&res, frontier)
			}
		} else {
			select {
			case <-ctx.Done():
				break loop
			case res, ok := <-resultCh:
				if !ok {
					break loop
				}
				pending--
				handleResult(&res, frontier)
			}
		}

		pop()
	}

	close(workCh)

	// In-flight pages still count when the loop stopped early.
	timeout := time.After(drainTimeout)
drain:
	for {
		select {
		case res, ok := <-resultCh:
			if !ok {
				break drain
			}
			handleResult(&res, frontier)
		case <-timeout:
			break drain
		}
	}
}
