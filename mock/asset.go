package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of distill.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) (*distill.Download, error)
}

func (d *Downloader) Download(ctx context.Context, url string) (*distill.Download, error) {
	return d.DownloadFn(ctx, url)
}

var _ distill.AssetStore = (*AssetStore)(nil)

// AssetStore is a mock implementation of distill.AssetStore.
type AssetStore struct {
	RegisterFn func(ctx context.Context, data []byte, mimeType string, ref distill.AssetRef) (*distill.Asset, error)
}

func (s *AssetStore) Register(ctx context.Context, data []byte, mimeType string, ref distill.AssetRef) (*distill.Asset, error) {
	return s.RegisterFn(ctx, data, mimeType, ref)
}

var _ distill.AssetDiscoverer = (*AssetDiscoverer)(nil)

// AssetDiscoverer is a mock implementation of distill.AssetDiscoverer.
type AssetDiscoverer struct {
	DiscoverAssetsFn func(html, baseURL string, analysis *distill.StructureAnalysis) ([]distill.AssetRef, error)
}

func (d *AssetDiscoverer) DiscoverAssets(html, baseURL string, analysis *distill.StructureAnalysis) ([]distill.AssetRef, error) {
	return d.DiscoverAssetsFn(html, baseURL, analysis)
}
