package distill

import (
	"context"
	"time"
)

// CrawlRun records one crawl of a site and its outcome.
type CrawlRun struct {
	ID         string    `json:"id"`
	StartURL   string    `json:"startUrl"`
	OutputDir  string    `json:"outputDir"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Saved     int `json:"saved"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Unchanged int `json:"unchanged"`
}

// Validate returns an error if the run contains invalid fields.
func (r *CrawlRun) Validate() error {
	if r.StartURL == "" {
		return Errorf(EINVALID, "crawl start URL required")
	}
	return nil
}

// Finished reports whether the run has completed.
func (r *CrawlRun) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// CrawlHistory keeps a log of crawl runs.
type CrawlHistory interface {
	// CreateCrawl records the start of a run and assigns its ID.
	CreateCrawl(ctx context.Context, run *CrawlRun) error

	// FinishCrawl stores the outcome of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishCrawl(ctx context.Context, run *CrawlRun) error

	// FindCrawls returns runs, most recent first.
	FindCrawls(ctx context.Context, filter CrawlFilter) ([]*CrawlRun, error)
}

// CrawlFilter represents a filter for FindCrawls.
type CrawlFilter struct {
	StartURL *string `json:"startUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
