package distill

import (
	"context"
	"time"
)

// Document is a rendered page as handed over by a Renderer.
// It is the immutable input of the extraction pipeline.
type Document struct {
	URL      string
	HTML     string
	Markdown string
	Title    string
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// Metadata describes the cleaned content of a page.
// The JSON form is the metadata.json file written next to content.md.
type Metadata struct {
	CrawledAt       time.Time `json:"crawled_at"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	ContentHash     string    `json:"content_hash"`
	Language        string    `json:"language"`
	EstimatedTokens int       `json:"estimated_tokens"`
	Description     string    `json:"description"`
	Keywords        []string  `json:"keywords"`
	ImageHashes     []string  `json:"image_hashes"`
	FileHashes      []string  `json:"file_hashes"`
}

// AttachAssets records the hashes of the given assets, split by kind.
// Hashes keep first-seen order and appear once.
func (m *Metadata) AttachAssets(assets []*Asset) {
	if m.ImageHashes == nil {
		m.ImageHashes = []string{}
	}
	if m.FileHashes == nil {
		m.FileHashes = []string{}
	}
	seen := make(map[string]bool)
	for _, h := range m.ImageHashes {
		seen[h] = true
	}
	for _, h := range m.FileHashes {
		seen[h] = true
	}
	for _, a := range assets {
		if a == nil || seen[a.Hash] {
			continue
		}
		seen[a.Hash] = true
		if a.Kind == AssetFile {
			m.FileHashes = append(m.FileHashes, a.Hash)
		} else {
			m.ImageHashes = append(m.ImageHashes, a.Hash)
		}
	}
}

// Page is the output of the pipeline for one Document.
type Page struct {
	Document *Document
	Analysis *StructureAnalysis

	// Content is the cleaned markdown written to content.md.
	Content  string
	Metadata *Metadata
	Assets   []*Asset
}

// URL returns the URL of the underlying document.
func (p *Page) URL() string {
	if p.Document == nil {
		return ""
	}
	return p.Document.URL
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}

// PageRecord is the last known state of a crawled URL.
type PageRecord struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ContentHash string    `json:"contentHash"`
	Language    string    `json:"language"`
	CrawledAt   time.Time `json:"crawledAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *PageRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if r.ContentHash == "" {
		return Errorf(EINVALID, "page content hash required")
	}
	return nil
}

// PageIndex tracks content hashes across crawls so unchanged pages can be
// told apart from modified ones.
type PageIndex interface {
	// FindPageByURL returns the record for a URL.
	// Returns ENOTFOUND if the URL was never recorded.
	FindPageByURL(ctx context.Context, url string) (*PageRecord, error)

	// FindPages returns records ordered by URL.
	FindPages(ctx context.Context, filter PageFilter) ([]*PageRecord, error)

	// UpsertPage creates or replaces the record for rec.URL.
	UpsertPage(ctx context.Context, rec *PageRecord) error
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	URLPrefix *string `json:"urlPrefix"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
