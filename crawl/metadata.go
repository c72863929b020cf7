package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultSummaryTimeout bounds a single Summarizer call.
const DefaultSummaryTimeout = 30 * time.Second

// MetadataExtractor derives page metadata from cleaned markdown.
//
// Description and keywords come from the Summarizer when one is set and it
// answers in time; otherwise, or for any part it leaves empty, they are
// computed heuristically. Summarizer failures are logged, never returned.
type MetadataExtractor struct {
	// Summarizer is optional.
	Summarizer distill.Summarizer

	// Languages are consulted in order; the first two-letter answer wins.
	Languages []distill.LanguageDetector

	// Timeout bounds each Summarizer call. Zero means DefaultSummaryTimeout.
	Timeout time.Duration

	Logger *slog.Logger
}

// Extract returns the metadata of cleaned content. URL and CrawledAt are
// left for the caller to fill in.
func (e *MetadataExtractor) Extract(ctx context.Context, cleaned, html, title string) *distill.Metadata {
	m := &distill.Metadata{
		Title:           title,
		ContentHash:     distill.ContentHash(cleaned),
		Language:        e.language(html, cleaned),
		EstimatedTokens: distill.EstimateTokens(cleaned),
		ImageHashes:     []string{},
		FileHashes:      []string{},
	}

	if summary := e.summarize(ctx, cleaned); summary != nil {
		m.Description = distill.CapDescription(summary.Description)
		m.Keywords = distill.NormalizeKeywords(summary.Keywords)
	}
	if m.Description == "" {
		m.Description = distill.Describe(cleaned)
	}
	if len(m.Keywords) == 0 {
		m.Keywords = distill.Keywords(cleaned, title)
	}

	return m
}

func (e *MetadataExtractor) language(html, text string) string {
	for _, d := range e.Languages {
		if lang, ok := d.DetectLanguage(html, text); ok {
			if lang, ok := distill.NormalizeLanguage(lang); ok {
				return lang
			}
		}
	}
	return distill.DefaultLanguage
}

// summarize asks the Summarizer about a bounded preview of text. It returns
// nil when there is no Summarizer, nothing to summarize or the call fails.
func (e *MetadataExtractor) summarize(ctx context.Context, text string) *distill.Summary {
	if e.Summarizer == nil || text == "" {
		return nil
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultSummaryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	summary, err := e.Summarizer.Summarize(ctx, distill.Preview(text))
	if err != nil {
		logger(e.Logger).Warn("summary unavailable, using heuristics", "err", err)
		return nil
	}
	return summary
}

// logger returns l, or a logger that discards everything when l is nil.
func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
