package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var (
	_ distill.Summarizer   = (*LoggingSummarizer)(nil)
	_ distill.Captioner    = (*LoggingCaptioner)(nil)
	_ distill.TokenCounter = (*LoggingTokenCounter)(nil)
)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   distill.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next distill.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer.
func (s *LoggingSummarizer) Summarize(ctx context.Context, text string) (summary *distill.Summary, err error) {
	defer func(begin time.Time) {
		var keywords int
		if summary != nil {
			keywords = len(summary.Keywords)
		}
		s.logger.Info("summarize",
			"chars", len(text),
			"keywords", keywords,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, text)
}

// LoggingCaptioner wraps a Captioner with logging.
type LoggingCaptioner struct {
	next   distill.Captioner
	logger *slog.Logger
}

// NewLoggingCaptioner creates a new LoggingCaptioner.
func NewLoggingCaptioner(next distill.Captioner, logger *slog.Logger) *LoggingCaptioner {
	return &LoggingCaptioner{next: next, logger: logger}
}

// Caption delegates to the wrapped captioner.
func (c *LoggingCaptioner) Caption(ctx context.Context, image []byte, mimeType string) (caption string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("caption",
			"mime_type", mimeType,
			"bytes", len(image),
			"caption", caption,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Caption(ctx, image, mimeType)
}

// LoggingTokenCounter wraps a TokenCounter with debug logging.
type LoggingTokenCounter struct {
	next   distill.TokenCounter
	logger *slog.Logger
}

// NewLoggingTokenCounter creates a new LoggingTokenCounter.
func NewLoggingTokenCounter(next distill.TokenCounter, logger *slog.Logger) *LoggingTokenCounter {
	return &LoggingTokenCounter{next: next, logger: logger}
}

// CountTokens delegates to the wrapped counter.
func (c *LoggingTokenCounter) CountTokens(ctx context.Context, text string) (n int, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("count tokens",
			"chars", len(text),
			"tokens", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.CountTokens(ctx, text)
}
