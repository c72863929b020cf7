package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultTitle is used for pages without a title.
const DefaultTitle = "Untitled"

// Pipeline turns a rendered Document into a Page: structure analysis,
// content filtering, cleaning and metadata extraction, in that order.
// It holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	Analyzer distill.StructureAnalyzer
	Filter   distill.ContentFilter
	Metadata *MetadataExtractor
	Logger   *slog.Logger

	// Now returns the crawl timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Process runs the pipeline over doc. The returned Page has no assets.
func (p *Pipeline) Process(ctx context.Context, doc *distill.Document) (*distill.Page, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	analysis := p.Analyzer.Analyze(doc.HTML)
	if analysis.Fallback {
		logger(p.Logger).Warn("no main content region, using body", "url", doc.URL)
	}

	filtered := p.Filter.Filter(doc.Markdown, doc.HTML, analysis)
	content := distill.Clean(filtered)

	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}

	meta := p.Metadata.Extract(ctx, content, doc.HTML, title)
	meta.URL = doc.URL
	meta.CrawledAt = p.now().UTC()

	return &distill.Page{
		Document: doc,
		Analysis: analysis,
		Content:  content,
		Metadata: meta,
		Assets:   []*distill.Asset{},
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
