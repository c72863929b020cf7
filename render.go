package distill

import "context"

// Renderer turns a URL into a Document holding the rendered HTML, a
// markdown rendering of the whole page and the page title.
type Renderer interface {
	Render(ctx context.Context, url string) (*Document, error)
}

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch returns the HTML of the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// ExtractResult holds what an Extractor learned about a page.
type ExtractResult struct {
	// Title is the page title taken from page metadata.
	Title string
}

// Extractor reads page-level metadata from HTML.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// RenderProbe tells whether a page fetched without a browser is an empty
// shell that needs JavaScript to show its content.
type RenderProbe interface {
	RequiresJS(html string) bool
}
