package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingDownloader implements distill.Downloader.
var _ distill.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with debug logging.
type LoggingDownloader struct {
	next   distill.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next distill.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader.
func (d *LoggingDownloader) Download(ctx context.Context, url string) (dl *distill.Download, err error) {
	defer func(begin time.Time) {
		var size int
		var mimeType string
		if dl != nil {
			size, mimeType = len(dl.Data), dl.MIMEType
		}
		d.logger.Debug("download",
			"url", url,
			"bytes", size,
			"mime_type", mimeType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url)
}
