package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure FileStore implements distill.PageStore at compile time.
var _ distill.PageStore = (*FileStore)(nil)

// Output file names.
const (
	ContentFile  = "content.md"
	MetadataFile = "metadata.json"
	RawHTMLFile  = "raw.html"
	RawMDFile    = "raw.md"
	SummaryFile  = "crawl_summary.json"
)

// FileStore implements distill.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
//
// Each page gets its own directory (see PageDir) holding content.md and
// metadata.json, or only content.md with a frontmatter block.
type FileStore struct {
	baseDir string
	name    string

	frontmatter bool
	raw         bool
	startURL    string
	maxDepth    int
	now         func() time.Time

	mu    sync.Mutex
	pages []string
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFrontmatter writes metadata as a YAML block at the top of content.md
// instead of a separate metadata.json.
func WithFrontmatter() Option {
	return func(s *FileStore) {
		s.frontmatter = true
	}
}

// WithRawArtifacts also keeps the fetched HTML and the unfiltered markdown
// of every page.
func WithRawArtifacts() Option {
	return func(s *FileStore) {
		s.raw = true
	}
}

// WithCrawlInfo records the crawl parameters in crawl_summary.json.
func WithCrawlInfo(startURL string, maxDepth int) Option {
	return func(s *FileStore) {
		s.startURL = startURL
		s.maxDepth = maxDepth
	}
}

// WithClock sets the function used to timestamp the crawl summary.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		s.now = now
	}
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir: baseDir,
		name:    name,
		now:     time.Now,
		pages:   []string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StagingDir returns the directory pages are written to before Commit.
// Other stores that must be committed together with the pages, such as an
// AssetStore, keep their files below it.
func (s *FileStore) StagingDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// Dir returns the final output directory.
func (s *FileStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the files of page to the staging directory.
func (s *FileStore) Save(ctx context.Context, page *distill.Page) error {
	if page == nil || page.Metadata == nil {
		return distill.Errorf(distill.EINVALID, "page metadata required")
	}
	rel, err := PageDir(page.URL())
	if err != nil {
		return err
	}

	dir := filepath.Join(s.StagingDir(), filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if s.frontmatter {
		content, err := FormatFrontmatter(page.Metadata, page.Content)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, ContentFile), []byte(content), 0644); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(filepath.Join(dir, ContentFile), []byte(page.Content), 0644); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(dir, MetadataFile), page.Metadata); err != nil {
			return err
		}
	}

	if s.raw && page.Document != nil {
		if err := os.WriteFile(filepath.Join(dir, RawHTMLFile), []byte(page.Document.HTML), 0644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, RawMDFile), []byte(page.Document.Markdown), 0644); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.pages = append(s.pages, page.URL())
	s.mu.Unlock()
	return nil
}

// Summary is the content of crawl_summary.json.
type Summary struct {
	StartURL   string    `json:"start_url"`
	CrawledAt  time.Time `json:"crawled_at"`
	TotalPages int       `json:"total_pages"`
	MaxDepth   int       `json:"max_depth"`
	Pages      []string  `json:"pages"`
}

// Commit writes the crawl summary and replaces the output directory with
// the staging directory.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.StagingDir(), 0755); err != nil {
		return err
	}

	s.mu.Lock()
	summary := &Summary{
		StartURL:   s.startURL,
		CrawledAt:  s.now().UTC(),
		TotalPages: len(s.pages),
		MaxDepth:   s.maxDepth,
		Pages:      append([]string{}, s.pages...),
	}
	s.mu.Unlock()

	if err := writeJSON(filepath.Join(s.StagingDir(), SummaryFile), summary); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}

	return os.Rename(s.StagingDir(), s.Dir())
}

// Abort discards everything saved since the store was created.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.StagingDir())
}

// writeJSON writes v as indented JSON, leaving non-ASCII text unescaped.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
