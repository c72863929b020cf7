package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	run := &distill.CrawlRun{StartURL: c.URL, OutputDir: deps.Pages.Dir()}
	if deps.History != nil {
		if err := deps.History.CreateCrawl(deps.Ctx, run); err != nil {
			deps.Logger.Warn("crawl not recorded", "err", err)
			run.ID = ""
		}
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d] %s\n", event.Completed, crawl.TruncateURL(event.URL, 72))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		}
	}

	begin := time.Now()
	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, progress)
	if result == nil {
		result = &crawl.Result{}
	}
	defer c.record(deps, run, result)

	if err != nil {
		_ = deps.Pages.Abort()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintf(deps.Stderr, "crawl canceled after %d pages, nothing written\n", result.Saved)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		}
		return err
	}

	if result.Saved == 0 {
		_ = deps.Pages.Abort()
		fmt.Fprintln(deps.Stdout, "No pages saved")
		return nil
	}

	if err := deps.Pages.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatResult(result, time.Since(begin)))
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", deps.Pages.Dir())
	return nil
}

// record stores the outcome of run in the crawl history.
func (c *CrawlCmd) record(deps *Dependencies, run *distill.CrawlRun, result *crawl.Result) {
	if deps.History == nil || run.ID == "" {
		return
	}
	run.Saved = result.Saved
	run.Failed = result.Failed
	run.Skipped = result.Skipped
	run.Unchanged = result.Unchanged
	if err := deps.History.FinishCrawl(context.WithoutCancel(deps.Ctx), run); err != nil {
		deps.Logger.Warn("crawl outcome not recorded", "err", err)
	}
}
