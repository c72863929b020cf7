package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of distill.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *distill.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *distill.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}

var _ distill.PageIndex = (*PageIndex)(nil)

// PageIndex is a mock implementation of distill.PageIndex.
type PageIndex struct {
	FindPageByURLFn func(ctx context.Context, url string) (*distill.PageRecord, error)
	FindPagesFn     func(ctx context.Context, filter distill.PageFilter) ([]*distill.PageRecord, error)
	UpsertPageFn    func(ctx context.Context, rec *distill.PageRecord) error
}

func (s *PageIndex) FindPageByURL(ctx context.Context, url string) (*distill.PageRecord, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageIndex) FindPages(ctx context.Context, filter distill.PageFilter) ([]*distill.PageRecord, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageIndex) UpsertPage(ctx context.Context, rec *distill.PageRecord) error {
	return s.UpsertPageFn(ctx, rec)
}

var _ distill.CrawlHistory = (*CrawlHistory)(nil)

// CrawlHistory is a mock implementation of distill.CrawlHistory.
type CrawlHistory struct {
	CreateCrawlFn func(ctx context.Context, run *distill.CrawlRun) error
	FinishCrawlFn func(ctx context.Context, run *distill.CrawlRun) error
	FindCrawlsFn  func(ctx context.Context, filter distill.CrawlFilter) ([]*distill.CrawlRun, error)
}

func (h *CrawlHistory) CreateCrawl(ctx context.Context, run *distill.CrawlRun) error {
	return h.CreateCrawlFn(ctx, run)
}

func (h *CrawlHistory) FinishCrawl(ctx context.Context, run *distill.CrawlRun) error {
	return h.FinishCrawlFn(ctx, run)
}

func (h *CrawlHistory) FindCrawls(ctx context.Context, filter distill.CrawlFilter) ([]*distill.CrawlRun, error) {
	return h.FindCrawlsFn(ctx, filter)
}
