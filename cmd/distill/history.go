package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/distill"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := distill.CrawlFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.StartURL = &c.URL
	}

	runs, err := deps.History.FindCrawls(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawls found. Use 'distill crawl' to start one.")
		return nil
	}

	for _, r := range runs {
		status := "unfinished"
		if r.Finished() {
			status = fmt.Sprintf("%d saved, %d unchanged, %d failed, %d skipped",
				r.Saved, r.Unchanged, r.Failed, r.Skipped)
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  (%s)\n",
			r.StartedAt.Local().Format(time.DateTime), r.StartURL, r.OutputDir, status)
	}
	return nil
}

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	filter := distill.PageFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Prefix != "" {
		filter.URLPrefix = &c.Prefix
	}

	recs, err := deps.Index.FindPages(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages found.")
		return nil
	}

	for _, r := range recs {
		hash := r.ContentHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(deps.Stdout, "%s  %-2s  %s  %s\n",
			r.CrawledAt.Local().Format(time.DateTime), r.Language, hash, r.URL)
	}
	return nil
}
