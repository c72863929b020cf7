package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCollector returns a collector that downloads each URL as its own
// bytes and registers refs verbatim.
func newTestCollector(refs []distill.AssetRef) (*crawl.AssetCollector, *sync.Map) {
	registered := &sync.Map{}
	c := &crawl.AssetCollector{
		Discoverer: &mock.AssetDiscoverer{
			DiscoverAssetsFn: func(string, string, *distill.StructureAnalysis) ([]distill.AssetRef, error) {
				return refs, nil
			},
		},
		Downloader: &mock.Downloader{
			DownloadFn: func(_ context.Context, url string) (*distill.Download, error) {
				return &distill.Download{URL: url, Data: []byte(url), MIMEType: "image/png"}, nil
			},
		},
		Store: &mock.AssetStore{
			RegisterFn: func(_ context.Context, data []byte, mimeType string, ref distill.AssetRef) (*distill.Asset, error) {
				registered.Store(ref.URL, ref)
				return &distill.Asset{
					Hash:             distill.AssetHash(data),
					OriginalURL:      ref.URL,
					MIMEType:         mimeType,
					AltText:          ref.AltText,
					AltTextGenerated: ref.AltTextGenerated,
					Kind:             ref.Kind,
				}, nil
			},
		},
	}
	return c, registered
}

func TestAssetCollector_Collect(t *testing.T) {
	t.Parallel()

	t.Run("keeps discovery order", func(t *testing.T) {
		t.Parallel()

		refs := []distill.AssetRef{
			{URL: "https://example.com/1.png", Kind: distill.AssetImage, AltText: "Architecture overview diagram"},
			{URL: "https://example.com/2.pdf", Kind: distill.AssetFile},
			{URL: "https://example.com/3.png", Kind: distill.AssetImage, AltText: "Screenshot of the settings page"},
		}
		c, _ := newTestCollector(refs)
		c.Concurrency = 3
		download := c.Downloader.(*mock.Downloader).DownloadFn
		c.Downloader.(*mock.Downloader).DownloadFn = func(ctx context.Context, url string) (*distill.Download, error) {
			if url == "https://example.com/1.png" {
				time.Sleep(20 * time.Millisecond)
			}
			return download(ctx, url)
		}

		assets := c.Collect(context.Background(), "<html></html>", "https://example.com/", nil)

		require.Len(t, assets, 3)
		for i, a := range assets {
			assert.Equal(t, refs[i].URL, a.OriginalURL)
		}
	})

	t.Run("leaves out failed downloads", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCollector([]distill.AssetRef{
			{URL: "https://example.com/missing.png", Kind: distill.AssetImage},
			{URL: "https://example.com/ok.pdf", Kind: distill.AssetFile},
		})
		download := c.Downloader.(*mock.Downloader).DownloadFn
		c.Downloader.(*mock.Downloader).DownloadFn = func(ctx context.Context, url string) (*distill.Download, error) {
			if url == "https://example.com/missing.png" {
				return nil, distill.Errorf(distill.ENOTFOUND, "asset not found")
			}
			return download(ctx, url)
		}

		assets := c.Collect(context.Background(), "", "https://example.com/", nil)

		require.Len(t, assets, 1)
		assert.Equal(t, "https://example.com/ok.pdf", assets[0].OriginalURL)
	})

	t.Run("leaves out assets the store rejects", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCollector([]distill.AssetRef{{URL: "https://example.com/a.png", Kind: distill.AssetImage}})
		c.Store = &mock.AssetStore{
			RegisterFn: func(context.Context, []byte, string, distill.AssetRef) (*distill.Asset, error) {
				return nil, errors.New("disk full")
			},
		}

		assets := c.Collect(context.Background(), "", "https://example.com/", nil)

		assert.NotNil(t, assets)
		assert.Empty(t, assets)
	})

	t.Run("returns nothing when discovery fails", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCollector(nil)
		c.Discoverer = &mock.AssetDiscoverer{
			DiscoverAssetsFn: func(string, string, *distill.StructureAnalysis) ([]distill.AssetRef, error) {
				return nil, distill.Errorf(distill.EINVALID, "invalid base URL")
			},
		}

		assets := c.Collect(context.Background(), "", "://bad", nil)

		assert.NotNil(t, assets)
		assert.Empty(t, assets)
	})

	t.Run("bounds each download", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCollector([]distill.AssetRef{{URL: "https://example.com/slow.png", Kind: distill.AssetImage}})
		c.Timeout = 10 * time.Millisecond
		c.Downloader = &mock.Downloader{
			DownloadFn: func(ctx context.Context, _ string) (*distill.Download, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}

		assets := c.Collect(context.Background(), "", "https://example.com/", nil)

		assert.Empty(t, assets)
	})

	t.Run("captions images with generic alt text", func(t *testing.T) {
		t.Parallel()

		c, registered := newTestCollector([]distill.AssetRef{
			{URL: "https://example.com/img/IMG_0042.jpg", Kind: distill.AssetImage, AltText: "image"},
			{URL: "https://example.com/img/chart.png", Kind: distill.AssetImage, AltText: "Monthly revenue by region in 2025"},
			{URL: "https://example.com/files/report.pdf", Kind: distill.AssetFile},
		})
		var mu sync.Mutex
		var captioned []string
		c.Captioner = &mock.Captioner{
			CaptionFn: func(_ context.Context, image []byte, mimeType string) (string, error) {
				mu.Lock()
				defer mu.Unlock()
				captioned = append(captioned, string(image))
				assert.Equal(t, "image/png", mimeType)
				return "  A cat sleeping on a keyboard. ", nil
			},
		}

		assets := c.Collect(context.Background(), "", "https://example.com/", nil)

		require.Len(t, assets, 3)
		assert.Equal(t, []string{"https://example.com/img/IMG_0042.jpg"}, captioned)
		assert.Equal(t, "A cat sleeping on a keyboard.", assets[0].AltText)
		assert.True(t, assets[0].AltTextGenerated)
		assert.Equal(t, "Monthly revenue by region in 2025", assets[1].AltText)
		assert.False(t, assets[1].AltTextGenerated)

		ref, ok := registered.Load("https://example.com/img/IMG_0042.jpg")
		require.True(t, ok)
		assert.True(t, ref.(distill.AssetRef).AltTextGenerated)
	})

	t.Run("keeps the original alt text when captioning fails", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCollector([]distill.AssetRef{
			{URL: "https://example.com/img/a.png", Kind: distill.AssetImage, AltText: "logo"},
		})
		c.Captioner = &mock.Captioner{
			CaptionFn: func(context.Context, []byte, string) (string, error) {
				return "", errors.New("model overloaded")
			},
		}

		assets := c.Collect(context.Background(), "", "https://example.com/", nil)

		require.Len(t, assets, 1)
		assert.Equal(t, "logo", assets[0].AltText)
		assert.False(t, assets[0].AltTextGenerated)
	})
}
