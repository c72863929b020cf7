package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/bloom"
)

// Compile-time interface verification.
var _ distill.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier ordered by crawl depth, with Bloom
// filter deduplication. A URL is marked as seen when it is pushed, so it is
// never dispatched twice. It is safe for concurrent use by multiple
// goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.VisitedSet
	queue *linkHeap
	seq   uint64
}

// NewFrontier creates a new Frontier popping links in the given order,
// sized for n expected URLs with the given false positive rate.
func NewFrontier(order distill.CrawlOrder, n uint, fpRate float64) *Frontier {
	h := &linkHeap{depthFirst: order == distill.DepthFirst}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewVisitedSet(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen. URLs differing only by
// fragment, host case or trailing slash are duplicates.
func (f *Frontier) Push(link distill.Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Visit(link.URL) {
		return false
	}

	f.seq++
	heap.Push(f.queue, queuedLink{Link: link, seq: f.seq})
	return true
}

// Pop returns the next link. Breadth-first frontiers return the shallowest
// link, oldest first; depth-first frontiers the deepest, newest first.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (distill.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return distill.Link{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedLink)
	return q.Link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Visited(rawURL)
}

type queuedLink struct {
	distill.Link
	seq uint64
}

// linkHeap implements heap.Interface over queued links.
type linkHeap struct {
	items      []queuedLink
	depthFirst bool
}

func (h linkHeap) Len() int { return len(h.items) }

func (h linkHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if h.depthFirst {
		if a.Depth != b.Depth {
			return a.Depth > b.Depth
		}
		return a.seq > b.seq
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.seq < b.seq
}

func (h linkHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queuedLink)
	h.items = append(h.items, q)
}

func (h *linkHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[0 : n-1]
	return x
}
