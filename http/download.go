package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultMaxAssetBytes caps the size of a downloaded asset.
const DefaultMaxAssetBytes = 50 << 20

// Ensure Downloader implements distill.Downloader at compile time.
var _ distill.Downloader = (*Downloader)(nil)

// Downloader fetches asset bodies.
type Downloader struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxBytes sets the largest accepted asset size.
func WithMaxBytes(n int64) DownloaderOption {
	return func(d *Downloader) {
		d.maxBytes = n
	}
}

// WithDownloadTimeout sets the timeout of a single download.
func WithDownloadTimeout(timeout time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.client.Timeout = timeout
	}
}

// NewDownloader creates a Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxAssetBytes,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download returns the body of url and its media type. The media type is
// taken from the Content-Type header, or sniffed from the body when the
// header is missing or generic.
func (d *Downloader) Download(ctx context.Context, url string) (*distill.Download, error) {
	resp, err := get(ctx, d.client, url, d.userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > d.maxBytes {
		return nil, distill.Errorf(distill.EINVALID, "asset %s too large: %d bytes", url, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > d.maxBytes {
		return nil, distill.Errorf(distill.EINVALID, "asset %s exceeds %d bytes", url, d.maxBytes)
	}
	if len(data) == 0 {
		return nil, distill.Errorf(distill.EINVALID, "asset %s is empty", url)
	}

	return &distill.Download{
		URL:      url,
		Data:     data,
		MIMEType: mediaType(resp.Header.Get("Content-Type"), data),
	}, nil
}

func mediaType(header string, data []byte) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil || mt == "" || mt == "application/octet-stream" {
		mt, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	return mt
}
