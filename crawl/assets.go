package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"golang.org/x/sync/errgroup"
)

// Asset collection defaults.
const (
	DefaultAssetConcurrency = 4
	DefaultAssetTimeout     = 30 * time.Second
)

// AssetCollector downloads the media a page references and registers it in
// an AssetStore. Downloads run concurrently, each with its own timeout; a
// failed asset is logged and left out.
type AssetCollector struct {
	Discoverer distill.AssetDiscoverer
	Downloader distill.Downloader
	Store      distill.AssetStore

	// Captioner is optional. When set, images whose alt text is missing or
	// generic get a generated one.
	Captioner distill.Captioner

	Concurrency int
	Timeout     time.Duration
	Logger      *slog.Logger
}

// Collect returns the registered assets of the page in discovery order.
func (c *AssetCollector) Collect(ctx context.Context, html, pageURL string, analysis *distill.StructureAnalysis) []*distill.Asset {
	log := logger(c.Logger)

	refs, err := c.Discoverer.DiscoverAssets(html, pageURL, analysis)
	if err != nil {
		log.Warn("asset discovery failed", "url", pageURL, "err", err)
		return []*distill.Asset{}
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultAssetConcurrency
	}

	results := make([]*distill.Asset, len(refs))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			asset, err := c.collect(ctx, ref)
			if err != nil {
				log.Warn("asset skipped", "url", ref.URL, "page", pageURL, "err", err)
				return nil
			}
			results[i] = asset
			return nil
		})
	}
	_ = g.Wait()

	assets := []*distill.Asset{}
	for _, a := range results {
		if a != nil {
			assets = append(assets, a)
		}
	}
	return assets
}

// collect downloads, optionally captions and registers a single asset.
func (c *AssetCollector) collect(ctx context.Context, ref distill.AssetRef) (*distill.Asset, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultAssetTimeout
	}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	download, err := c.Downloader.Download(dctx, ref.URL)
	cancel()
	if err != nil {
		return nil, err
	}

	if ref.Kind == distill.AssetImage && c.Captioner != nil && distill.IsGenericAltText(ref.AltText, ref.URL) {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		caption, err := c.Captioner.Caption(cctx, download.Data, download.MIMEType)
		cancel()
		if caption = strings.TrimSpace(caption); err == nil && caption != "" {
			ref.AltText = caption
			ref.AltTextGenerated = true
		} else if err != nil {
			logger(c.Logger).Warn("caption unavailable", "url", ref.URL, "err", err)
		}
	}

	return c.Store.Register(ctx, download.Data, download.MIMEType, ref)
}
