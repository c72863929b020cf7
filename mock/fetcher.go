package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of distill.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ distill.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of distill.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*distill.Document, error)
}

func (r *Renderer) Render(ctx context.Context, url string) (*distill.Document, error) {
	return r.RenderFn(ctx, url)
}

var _ distill.RenderProbe = (*RenderProbe)(nil)

// RenderProbe is a mock implementation of distill.RenderProbe.
type RenderProbe struct {
	RequiresJSFn func(html string) bool
}

func (p *RenderProbe) RequiresJS(html string) bool {
	return p.RequiresJSFn(html)
}
