package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var (
	_ distill.Fetcher  = (*LoggingFetcher)(nil)
	_ distill.Renderer = (*LoggingRenderer)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   distill.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next distill.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   distill.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next distill.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the document size.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (doc *distill.Document, err error) {
	defer func(begin time.Time) {
		var htmlBytes, mdBytes int
		var title string
		if doc != nil {
			htmlBytes, mdBytes, title = len(doc.HTML), len(doc.Markdown), doc.Title
		}
		r.logger.Debug("render",
			"url", url,
			"title", title,
			"html_bytes", htmlBytes,
			"markdown_bytes", mdBytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}
