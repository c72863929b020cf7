package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure Prober implements distill.RenderProbe at compile time.
var _ distill.RenderProbe = (*Prober)(nil)

// minStaticText is the visible text a statically fetched page needs to be
// considered rendered.
const minStaticText = 200

// Prober decides whether a statically fetched page is an application shell
// that only renders its content with JavaScript.
// It checks for framework mount points, noscript notices and generator
// meta tags of client-rendered site builders.
type Prober struct{}

// NewProber creates a new Prober.
func NewProber() *Prober {
	return &Prober{}
}

// RequiresJS reports whether html needs a browser to show its content.
// Unparsable input is reported as requiring JavaScript so that a browser
// gets a chance at it.
func (p *Prober) RequiresJS(rawHTML string) bool {
	doc, err := parse(rawHTML)
	if err != nil {
		return true
	}

	// Meta generator first, most reliable when present
	if p.clientRenderedGenerator(doc) {
		return true
	}

	body := doc.Find("body")
	visible := textLength(body)

	// SPA mount points with next to no server-rendered text
	if visible < minStaticText &&
		(p.hasSelector(doc, "#root") ||
			p.hasSelector(doc, "#__next") ||
			p.hasSelector(doc, "#app") ||
			p.hasSelector(doc, "#__nuxt") ||
			p.hasSelector(doc, "[data-reactroot]")) {
		return true
	}

	if visible < minStaticText && p.hasJavaScriptNotice(doc) {
		return true
	}

	return visible == 0
}

// clientRenderedGenerator checks the meta generator tag for site builders
// that render pages in the browser.
func (p *Prober) clientRenderedGenerator(doc *goquery.Document) bool {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	switch {
	case strings.Contains(generator, "gitbook"):
		return true
	case strings.Contains(generator, "nextra"):
		return true
	}
	return false
}

// hasJavaScriptNotice checks noscript blocks for "enable JavaScript" style
// notices.
func (p *Prober) hasJavaScriptNotice(doc *goquery.Document) bool {
	found := false
	doc.Find("noscript").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(s.Text())
		if strings.Contains(text, "javascript") &&
			(strings.Contains(text, "enable") || strings.Contains(text, "aktivieren") || strings.Contains(text, "requires")) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasSelector checks if the document contains at least one element matching the selector.
func (p *Prober) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
