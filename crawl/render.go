package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var (
	_ distill.Renderer = (*Renderer)(nil)
	_ distill.Fetcher  = (*FallbackFetcher)(nil)
)

// Renderer produces Documents by fetching HTML, converting the whole page
// to markdown and reading the page title.
type Renderer struct {
	Fetcher   distill.Fetcher
	Converter distill.Converter

	// Extractor is optional; without it documents have no title.
	Extractor distill.Extractor
}

// Render fetches url and returns its Document.
func (r *Renderer) Render(ctx context.Context, url string) (*distill.Document, error) {
	html, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	markdown, err := r.Converter.Convert(html)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	doc := &distill.Document{
		URL:      url,
		HTML:     html,
		Markdown: markdown,
	}
	if r.Extractor != nil {
		if res, err := r.Extractor.Extract(html); err == nil {
			doc.Title = res.Title
		}
	}
	return doc, nil
}

// FallbackFetcher fetches pages without a browser and falls back to one
// when the static fetch fails or the Probe reports that the page needs
// JavaScript.
type FallbackFetcher struct {
	Static distill.Fetcher

	// Browser is optional; without it static results are always returned.
	Browser distill.Fetcher
	Probe   distill.RenderProbe
	Logger  *slog.Logger
}

// Fetch returns the HTML of url.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.Static.Fetch(ctx, url)
	switch {
	case err == nil && (f.Probe == nil || !f.Probe.RequiresJS(html)):
		return html, nil
	case f.Browser == nil:
		return html, err
	case distill.ErrorCode(err) == distill.ENOTFOUND:
		return "", err
	}

	logger(f.Logger).Debug("rendering in browser", "url", url, "static_err", err)
	rendered, berr := f.Browser.Fetch(ctx, url)
	if berr != nil {
		if err == nil {
			return html, nil
		}
		return "", errors.Join(err, berr)
	}
	return rendered, nil
}

// Close releases both fetchers.
func (f *FallbackFetcher) Close() error {
	var errs []error
	if err := f.Static.Close(); err != nil {
		errs = append(errs, err)
	}
	if f.Browser != nil {
		if err := f.Browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
